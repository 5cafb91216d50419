package user

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/derived"
	"foodgram/pkg/jwt"
	"foodgram/pkg/relation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendMail(toEmail string, subject string, _ string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: subject})
	return nil
}

func newService(t *testing.T) (UserService, *gorm.DB, *fakeMailer, jwt.JWTService) {
	t.Helper()
	db := testutil.NewDB(t)
	mailer := &fakeMailer{}
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	svc := NewUserService(
		NewUserRepository(db),
		derived.NewCalculator(db),
		relation.NewMutator(db),
		jwtService,
		mailer,
		"http://localhost:8080",
	)
	return svc, db, mailer, jwtService
}

func register(t *testing.T, svc UserService, username string) *domain.RegisterResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@Example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, jwtService := newService(t)
	ctx := context.Background()

	res := register(t, svc, "chef")
	assert.Equal(t, "chef@example.com", res.Email)

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "chef@example.com", Username: "other", Password: "whatever1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)
	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "new@example.com", Username: "chef", Password: "whatever1"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyUsed)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "CHEF@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	id, role, err := jwtService.GetUserIDByToken(login.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, res.ID, id)
	assert.Equal(t, domain.RoleUser, role)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSetPassword(t *testing.T) {
	svc, _, mailer, _ := newService(t)
	ctx := context.Background()
	u := register(t, svc, "cook")

	err := svc.SetPassword(ctx, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"}, u.ID)
	assert.ErrorIs(t, err, domain.ErrWrongCurrentPassword)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.SetPassword(ctx, domain.SetPasswordRequest{CurrentPassword: "correct-horse", NewPassword: "brand-new-pass"}, u.ID))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "cook@example.com", mailer.sent[0].to)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestSubscriptions(t *testing.T) {
	svc, db, _, _ := newService(t)
	ctx := context.Background()

	reader := register(t, svc, "reader")
	author := register(t, svc, "author")

	var authorEntity entities.User
	require.NoError(t, db.First(&authorEntity, "id = ?", author.ID).Error)
	// "third" is the newest
	for i, name := range []string{"first", "second", "third"} {
		r := testutil.CreateRecipe(t, db, &authorEntity, name, nil)
		require.NoError(t, db.Model(r).Update("pub_date", time.Now().Add(time.Duration(i)*time.Minute)).Error)
	}

	_, err := svc.Subscribe(ctx, reader.ID, reader.ID, 0)
	assert.ErrorIs(t, err, domain.ErrSelfFollow)

	_, err = svc.Subscribe(ctx, uuid.NewString(), reader.ID, 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	sub, err := svc.Subscribe(ctx, author.ID, reader.ID, 2)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 3, sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "third", sub.Recipes[0].Name)
	assert.Equal(t, "second", sub.Recipes[1].Name)

	_, err = svc.Subscribe(ctx, author.ID, reader.ID, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	list, err := svc.GetSubscriptions(ctx, reader.ID, domain.PageRequest{}, 0)
	require.NoError(t, err)
	require.Len(t, list.Subscriptions, 1)
	assert.Len(t, list.Subscriptions[0].Recipes, 3)
	assert.EqualValues(t, 1, list.Pagination.Total)

	other, err := svc.GetUser(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, other.IsSubscribed)

	anon, err := svc.GetUser(ctx, "", author.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	require.NoError(t, svc.Unsubscribe(ctx, author.ID, reader.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, author.ID, reader.ID), domain.ErrAlreadyUnsubscribed)

	list, err = svc.GetSubscriptions(ctx, reader.ID, domain.PageRequest{}, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Subscriptions)
}

func TestDeleteUser(t *testing.T) {
	svc, db, _, _ := newService(t)
	ctx := context.Background()

	author := register(t, svc, "author")
	fan := register(t, svc, "fan")

	var authorEntity entities.User
	require.NoError(t, db.First(&authorEntity, "id = ?", author.ID).Error)
	testutil.CreateRecipe(t, db, &authorEntity, "protected", nil)

	_, err := svc.Subscribe(ctx, author.ID, fan.ID, 0)
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, author.ID)
	assert.ErrorIs(t, err, domain.ErrUserHasRecipes)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// the foreign key itself refuses too
	assert.Error(t, NewUserRepository(db).DeleteUser(ctx, authorEntity.ID))

	require.NoError(t, svc.DeleteUser(ctx, fan.ID))
	var follows int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&follows).Error)
	assert.Zero(t, follows)

	assert.ErrorIs(t, svc.DeleteUser(ctx, fan.ID), domain.ErrUserNotFound)
}

func TestGetUsersPagination(t *testing.T) {
	svc, _, _, _ := newService(t)
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		register(t, svc, name)
	}

	res, err := svc.GetUsers(context.Background(), "", domain.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "charlie", res.Users[0].Username)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, res.Pagination)
}
