package handlers

import (
	"net/http/httptest"
	"testing"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFlag(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		query   string
		want    *bool
		wantErr error
	}{
		{query: "", want: nil},
		{query: "?is_favorited=1", want: &yes},
		{query: "?is_favorited=0", want: &no},
		{query: "?is_favorited=true", want: &yes},
		{query: "?is_favorited=maybe", wantErr: domain.ErrInvalidFavoritedFilter},
		{query: "?is_favorited=2", wantErr: domain.ErrInvalidFavoritedFilter},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var (
				got *bool
				err error
			)
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got, err = queryFlag(c, "is_favorited", domain.ErrInvalidFavoritedFilter)
				return c.SendStatus(fiber.StatusNoContent)
			})

			_, reqErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/"+tt.query, nil))
			require.NoError(t, reqErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
