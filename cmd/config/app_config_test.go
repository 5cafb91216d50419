package config_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodgram/cmd/config"
	"foodgram/domain"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "test-secret"

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type server struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newServer(t *testing.T) *server {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("RATE_LIMIT_PER_SECOND", "0")
	t.Setenv("ACCESS_LOG_PATH", filepath.Join(dir, "logs", "access.log"))
	t.Setenv("MEDIA_DIR", filepath.Join(dir, "media"))
	t.Setenv("APP_URL", "http://foodgram.test")

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStorage(filepath.Join(dir, "media"), "http://foodgram.test")
	require.NoError(t, err)

	app, err := config.NewApp(db, store, mailing.NewMailer(mailing.MailConfig{}))
	require.NoError(t, err)
	return &server{t: t, app: app, db: db}
}

func (s *server) do(method, path, token string, body any) (int, envelope, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env, raw
}

func (s *server) signup(username string) (string, string) {
	s.t.Helper()
	status, env, _ := s.do(fiber.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username),
		LastName:  "Cook",
		Password:  "correct-horse",
	})
	require.Equal(s.t, fiber.StatusCreated, status, env.Message)
	var registered domain.RegisterResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &registered))

	status, env, _ = s.do(fiber.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{
		Email:    username + "@example.com",
		Password: "correct-horse",
	})
	require.Equal(s.t, fiber.StatusOK, status)
	var login domain.LoginResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	return registered.ID, login.AuthToken
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(
		append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...),
	)
}

func TestFavoriteScenario(t *testing.T) {
	s := newServer(t)
	flour := testutil.CreateIngredient(t, s.db, "flour", "g")
	lunch := testutil.CreateTag(t, s.db, "lunch", "#49B64E")

	xID, xToken := s.signup("x")
	yID, yToken := s.signup("y")

	status, env, _ := s.do(fiber.MethodPost, "/api/recipes", xToken, domain.CreateRecipeRequest{
		Name:        "bread",
		Text:        "Knead and bake.",
		CookingTime: 45,
		Image:       pngDataURI(),
		Ingredients: []domain.RecipeIngredientRequest{{ID: flour.ID.String(), Amount: 100}},
		Tags:        []string{lunch.ID.String()},
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	created := decode[domain.RecipeResponse](t, env)
	assert.Equal(t, xID, created.Author.ID)

	status, _, _ = s.do(fiber.MethodGet, "/api/recipes/"+created.ID+"/favorite", yToken, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, env, _ = s.do(fiber.MethodPost, "/api/recipes/"+created.ID+"/favorite", yToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Status)

	_, env, _ = s.do(fiber.MethodGet, "/api/recipes/"+created.ID, yToken, nil)
	assert.True(t, decode[domain.RecipeResponse](t, env).IsFavorited)

	_, env, _ = s.do(fiber.MethodGet, "/api/recipes/"+created.ID, xToken, nil)
	assert.False(t, decode[domain.RecipeResponse](t, env).IsFavorited)

	_, env, _ = s.do(fiber.MethodGet, "/api/recipes/"+created.ID, "", nil)
	forAnon := decode[domain.RecipeResponse](t, env)
	assert.False(t, forAnon.IsFavorited)
	assert.EqualValues(t, 1, forAnon.FavoritedCount)

	_, env, _ = s.do(fiber.MethodGet, "/api/recipes?is_favorited=1", yToken, nil)
	list := decode[domain.RecipeListResponse](t, env)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, created.ID, list.Recipes[0].ID)

	status, _, _ = s.do(fiber.MethodDelete, "/api/recipes/"+created.ID+"/favorite", yToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _, _ = s.do(fiber.MethodDelete, "/api/recipes/"+created.ID+"/favorite", yToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	assert.NotEmpty(t, yID)
}

func TestSubscriptionsAndErrors(t *testing.T) {
	s := newServer(t)
	xID, xToken := s.signup("x")
	_, yToken := s.signup("y")

	status, env, _ := s.do(fiber.MethodPost, "/api/users/"+xID+"/subscribe", xToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "author")

	status, _, _ = s.do(fiber.MethodPost, "/api/users/"+xID+"/subscribe", yToken, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	status, _, _ = s.do(fiber.MethodGet, "/api/users/"+xID+"/subscribe", yToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	_, env, _ = s.do(fiber.MethodGet, "/api/users/"+xID, yToken, nil)
	assert.True(t, decode[domain.UserResponse](t, env).IsSubscribed)

	_, env, _ = s.do(fiber.MethodGet, "/api/users/subscriptions", yToken, nil)
	subs := decode[domain.SubscriptionListResponse](t, env)
	require.Len(t, subs.Subscriptions, 1)
	assert.Equal(t, "x", subs.Subscriptions[0].Username)

	status, _, _ = s.do(fiber.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env, _ = s.do(fiber.MethodPost, "/api/users", "", domain.RegisterRequest{Email: "bad"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "username")

	status, _, _ = s.do(fiber.MethodGet, "/api/recipes/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env, _ = s.do(fiber.MethodGet, "/api/recipes?is_in_shopping_cart=maybe", yToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "is_in_shopping_cart")
}

func TestDeleteUserWithRecipes(t *testing.T) {
	s := newServer(t)
	flour := testutil.CreateIngredient(t, s.db, "flour", "g")
	xID, xToken := s.signup("x")
	adminID, _ := s.signup("admin")

	admin, err := jwt.NewJWTService(secret, time.Hour).GenerateTokenUser(adminID, domain.RoleAdmin)
	require.NoError(t, err)

	status, _, _ := s.do(fiber.MethodDelete, "/api/users/"+xID, xToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	lunch := testutil.CreateTag(t, s.db, "lunch", "#49B64E")
	status, _, _ = s.do(fiber.MethodPost, "/api/recipes", xToken, domain.CreateRecipeRequest{
		Name:        "porridge",
		Text:        "Stir.",
		CookingTime: 10,
		Image:       pngDataURI(),
		Ingredients: []domain.RecipeIngredientRequest{{ID: flour.ID.String(), Amount: 50}},
		Tags:        []string{lunch.ID.String()},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _, _ = s.do(fiber.MethodDelete, "/api/users/"+xID, admin, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestDownloadShoppingCart(t *testing.T) {
	s := newServer(t)
	flour := testutil.CreateIngredient(t, s.db, "flour", "g")
	sugar := testutil.CreateIngredient(t, s.db, "sugar", "g")
	lunch := testutil.CreateTag(t, s.db, "lunch", "#49B64E")
	_, token := s.signup("x")

	create := func(name string, lines ...domain.RecipeIngredientRequest) string {
		status, env, _ := s.do(fiber.MethodPost, "/api/recipes", token, domain.CreateRecipeRequest{
			Name:        name,
			Text:        "Bake.",
			CookingTime: 30,
			Image:       pngDataURI(),
			Ingredients: lines,
			Tags:        []string{lunch.ID.String()},
		})
		require.Equal(t, fiber.StatusCreated, status, env.Message)
		return decode[domain.RecipeResponse](t, env).ID
	}
	a := create("a",
		domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 100},
		domain.RecipeIngredientRequest{ID: sugar.ID.String(), Amount: 50},
	)
	b := create("b", domain.RecipeIngredientRequest{ID: flour.ID.String(), Amount: 200})

	for _, id := range []string{a, b} {
		status, _, _ := s.do(fiber.MethodPost, "/api/recipes/"+id+"/shopping_cart", token, nil)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, _, raw := s.do(fiber.MethodGet, "/api/recipes/download_shopping_cart?format=txt", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), "flour (g) - 300")
	assert.Contains(t, string(raw), "sugar (g) - 50")

	status, _, raw = s.do(fiber.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
