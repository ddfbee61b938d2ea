package api

import (
	"context"
	"fmt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token. Accounts with
// two-factor authentication enabled get their token through a second
// verification step this client does not implement.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}

	if resp.Token == "" {
		if resp.Message != "" {
			return "", fmt.Errorf("login did not return a token: %s", resp.Message)
		}
		return "", fmt.Errorf("login did not return a token (two-factor accounts are not supported)")
	}
	return resp.Token, nil
}
