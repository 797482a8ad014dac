package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"studkits-backend/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// AuthUser resolves the auth record behind a bearer token. Used to hydrate
// display name and photo for users that have no stored profile row yet.
func (c *Client) AuthUser(token string) (*types.UserResponse, error) {
	user, err := c.Supabase.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch auth user: %w", err)
	}
	return user, nil
}
