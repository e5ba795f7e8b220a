package oidc

// Package oidc adapts the Microsoft identity platform (Entra ID) to ports.AuthProvider:
// OAuth2 authorization code flow, optional id_token verification and the
// Graph /me profile fetch.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// maxProfileBytes bounds the Graph response we are willing to decode.
const maxProfileBytes = 1 << 20

// Provider implements the AuthProvider interface against Microsoft Entra ID.
type Provider struct {
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client

	// verifier is nil unless id_token verification is enabled.
	verifier *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the Microsoft provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	RedirectURL  string
	Scope        string
	ProfileURL   string
	// VerifyIDToken checks the id_token signature, audience and nonce.
	VerifyIDToken bool
	HTTPClient    *http.Client // Optional, defaults to a client with a 15s timeout

	// Endpoint and Issuer override the tenant-derived values (tests, sovereign clouds).
	Endpoint *oauth2.Endpoint
	Issuer   string
}

// multiTenant lists tenant aliases whose discovery documents carry a templated issuer.
var multiTenant = map[string]bool{"common": true, "organizations": true, "consumers": true}

// NewProvider creates a new Microsoft provider. Discovery only happens when
// VerifyIDToken is set.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.ProfileURL == "" {
		return nil, errors.New("profile URL is required")
	}
	tenant := strings.TrimSpace(config.TenantID)
	if tenant == "" {
		tenant = "common"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	endpoint := microsoft.AzureADEndpoint(tenant)
	if config.Endpoint != nil {
		endpoint = *config.Endpoint
	}

	p := &Provider{
		profileURL: config.ProfileURL,
		httpClient: httpClient,
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(config.Scope),
			Endpoint:     endpoint,
		},
	}

	if config.VerifyIDToken {
		verifier, err := newVerifier(ctx, httpClient, tenant, config)
		if err != nil {
			return nil, err
		}
		p.verifier = verifier
	}
	return p, nil
}

func newVerifier(ctx context.Context, client *http.Client, tenant string, config ProviderConfig) (*gooidc.IDTokenVerifier, error) {
	issuer := config.Issuer
	if issuer == "" {
		issuer = "https://login.microsoftonline.com/" + tenant + "/v2.0"
	}
	ctx = gooidc.ClientContext(ctx, client)
	skipIssuer := multiTenant[strings.ToLower(tenant)]
	if skipIssuer {
		// Multi-tenant discovery advertises "{tenantid}" in the issuer.
		ctx = gooidc.InsecureIssuerURLContext(ctx, issuer)
	}
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return op.Verifier(&gooidc.Config{ClientID: config.ClientID, SkipIssuerCheck: skipIssuer}), nil
}

// AuthCodeURL builds the authorize URL for the given state and nonce.
func (p *Provider) AuthCodeURL(in ports.BeginInput) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_mode", "query"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
	if in.Nonce != "" {
		opts = append(opts, oauth2.SetAuthURLParam("nonce", in.Nonce))
	}
	return p.config.AuthCodeURL(in.State, opts...)
}

// Exchange trades the code for a token and loads the user's Graph profile.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error) {
	if in.Code == "" {
		return domainauth.Principal{}, apperrors.Validation("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Principal{}, apperrors.Upstream(err, "Erro ao obter token: "+retrieveErrorDetail(err))
	}

	if p.verifier != nil {
		if verr := p.verifyIDToken(ctx, token, in.Nonce); verr != nil {
			return domainauth.Principal{}, apperrors.Upstream(verr, "Token de identidade inválido")
		}
	}

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return domainauth.Principal{}, err
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Principal{
		Subject:     deref(profile.ID),
		Email:       profile.email(),
		DisplayName: deref(profile.DisplayName),
		JobTitle:    deref(profile.JobTitle),
		Department:  deref(profile.Department),
		MobilePhone: deref(profile.MobilePhone),
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// graphUser is the subset of the Graph /me payload we read. Graph returns
// null for unset attributes, hence the pointers.
type graphUser struct {
	ID                *string `json:"id"`
	Mail              *string `json:"mail"`
	UserPrincipalName *string `json:"userPrincipalName"`
	DisplayName       *string `json:"displayName"`
	JobTitle          *string `json:"jobTitle"`
	Department        *string `json:"department"`
	MobilePhone       *string `json:"mobilePhone"`
}

// email prefers mail and falls back to userPrincipalName.
func (u graphUser) email() string {
	return strings.ToLower(strings.TrimSpace(firstNonEmpty(deref(u.Mail), deref(u.UserPrincipalName))))
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (graphUser, error) {
	var u graphUser
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return u, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return u, apperrors.Upstream(err, "Erro ao obter dados do usuário")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProfileBytes))
		return u, apperrors.Upstream(fmt.Errorf("profile endpoint returned %d", resp.StatusCode), "Erro ao obter dados do usuário")
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBytes)).Decode(&u); err != nil {
		return u, apperrors.Upstream(err, "Erro ao obter dados do usuário")
	}
	return u, nil
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) error {
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return fmt.Errorf("verify id_token: %w", err)
	}
	if expectedNonce != "" && idTok.Nonce != expectedNonce {
		return errors.New("invalid nonce")
	}
	return nil
}

// retrieveErrorDetail extracts the provider's error description when available.
func retrieveErrorDetail(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
		if re.ErrorCode != "" {
			return re.ErrorCode
		}
		return strings.TrimSpace(string(re.Body))
	}
	return err.Error()
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
