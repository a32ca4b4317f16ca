package domain

import "errors"

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageFailedSubscribe         = "failed to subscribe"
	MessageFailedUnsubscribe       = "failed to unsubscribe"
	MessageFailedGetSubscriptions  = "failed to get subscriptions"

	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")
)

// UserWithRecipesResponse is the author card returned by the subscription
// endpoints: the profile plus a capped preview of their recipes.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int                   `json:"recipes_count"`
}
