// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin login gate and session token handling.

# Gate

A Gate is built once from the configuration:

	gate, err := auth.NewGate(cfg)

It knows the single admin identity (username plus bcrypt hash of the
password), the token signing secret and the cookie signing secret.

# Tokens

Tokens are HS256 JWTs carrying the username, iat, exp and a random jti:

	token, err := gate.Login(username, password)
	id, err := gate.ParseToken(token)

They expire one hour after issue. Nothing is stored server-side, so a token
stays valid until it expires even after logout.

# Request Verification

Verify looks for a token in this order:

  - cookie "token"
  - cookie "adminToken"
  - Authorization: Bearer <token>

It returns ErrNoToken when nothing is found and ErrInvalidToken for a bad
signature, a malformed token or an expired one:

	id, err := gate.Verify(r)

# Cookies

Login sets both cookies with the same value, signed with the cookie secret
in the "s:<value>.<signature>" form:

	gate.SetSessionCookies(w, token)
	gate.ClearSessionCookies(w)

Unsigned cookie values are still accepted for older clients.

# Context

The verified identity travels with the request:

	ctx = auth.WithIdentity(ctx, id)
	id, ok := auth.IdentityFromContext(ctx)
*/
package auth
