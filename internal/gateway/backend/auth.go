package backend

import (
	"context"
	"net/http"

	"logistics-console/internal/domain"
)

// LoginResult is the token and identity issued by the backend.
type LoginResult struct {
	Token string
	User  domain.User
}

// Ack is the acknowledgement of a mutating call.
type Ack struct {
	Message string
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, username, password string) Result[LoginResult] {
	cl := call{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/api/auth/login",
		body:     credentialsRequest{Username: username, Password: password},
		public:   true,
	}
	body, f := fetch[loginBody](ctx, c, cl)
	if f != nil {
		return Fail[LoginResult](f)
	}
	if body.Token == "" || body.User == nil {
		return Fail[LoginResult](missing(cl.endpoint, "token or user"))
	}
	return Ok(LoginResult{Token: body.Token, User: body.User.toDomain()})
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password string) Result[Ack] {
	cl := call{
		endpoint: "register",
		method:   http.MethodPost,
		path:     "/api/auth/register",
		body:     credentialsRequest{Username: username, Password: password},
		public:   true,
	}
	return ack(ctx, c, cl)
}

func ack(ctx context.Context, c *Client, cl call) Result[Ack] {
	body, f := fetch[ackBody](ctx, c, cl)
	if f != nil {
		return Fail[Ack](f)
	}
	return Ok(Ack{Message: body.Message})
}
