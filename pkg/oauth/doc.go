// Package oauth implements the client-side OAuth 2.0 flows of the Coze API
// platform: fixed personal access tokens, the JWT-bearer grant, the PKCE
// authorization-code grant, the confidential web authorization-code grant,
// and the device-code grant.
//
// # Core Components
//
//   - OAuthToken / DeviceAuthCode: value objects for issued credentials
//   - JWTOAuthApp / PKCEOAuthApp / WebOAuthApp / DeviceOAuthApp: flow
//     drivers that build authorization URLs and exchange credentials for
//     tokens against the fixed provider endpoints
//   - Auth: strategy interface producing the Authorization header value,
//     with TokenAuth (static) and JWTAuth (lazily cached, auto-renewing)
//     implementations
//
// # Usage
//
// Static token:
//
//	auth, err := oauth.NewTokenAuth(os.Getenv("COZE_API_TOKEN"))
//	err = oauth.Authenticate(ctx, auth, req.Header)
//
// JWT-bearer with automatic renewal:
//
//	auth, err := oauth.NewJWTAuth(oauth.JWTAuthConfig{
//		ClientID:      clientID,
//		PrivateKeyPEM: pemBytes,
//		PublicKeyID:   keyID,
//	})
//	token, err := auth.Token(ctx)
//
// All token exchanges are blocking calls over the configured HTTP client;
// cancellation and timeouts are controlled through the context and the
// client, not by this package.
package oauth
