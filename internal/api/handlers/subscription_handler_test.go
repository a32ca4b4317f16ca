package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/domain"
)

type fakeSubscriptionService struct {
	unsubscribeErr error
}

func (f *fakeSubscriptionService) Subscribe(context.Context, string, string, int) (domain.UserWithRecipesResponse, error) {
	return domain.UserWithRecipesResponse{}, nil
}

func (f *fakeSubscriptionService) Unsubscribe(context.Context, string, string) error {
	return f.unsubscribeErr
}

func (f *fakeSubscriptionService) GetSubscriptions(context.Context, string, int, int, int) ([]domain.UserWithRecipesResponse, int64, error) {
	return nil, 0, nil
}

func unsubscribeApp(service *fakeSubscriptionService) *fiber.App {
	handler := NewSubscriptionHandler(service)
	app := fiber.New()
	app.Delete("/api/users/:id/subscribe", func(c *fiber.Ctx) error {
		c.Locals("user_id", "8a1f8c1e-23b8-4a6a-9a1f-0f7d56a3e111")
		return handler.Unsubscribe(c)
	})
	return app
}

func TestUnsubscribeNoContent(t *testing.T) {
	app := unsubscribeApp(&fakeSubscriptionService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/users/some-author/subscribe", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body, "204 response must carry no body")
}

func TestUnsubscribeAbsentEdge(t *testing.T) {
	app := unsubscribeApp(&fakeSubscriptionService{unsubscribeErr: domain.ErrNotSubscribed})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/users/some-author/subscribe", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
