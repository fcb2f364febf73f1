package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// Renewal results recorded in metrics.
const (
	renewalSuccess = "success"
	renewalFailure = "failure"
	renewalSkipped = "skipped"
)

// renew replaces stale with a fresh access token. Concurrent callers that
// observed the same stale token share one renewal call. The session's current
// credential decides what happens: none means the operator logged out or
// another call failed fatally, so no renewal is sent; a different one means
// another caller already renewed.
//
// The renewal itself runs detached from ctx: a caller that gives up does not
// abort a renewal other callers are waiting on, and a token the server has
// already rotated is still stored. The caller stops waiting on cancellation.
func (c *Client) renew(ctx context.Context, stale string) error {
	ch := c.renewals.DoChan(stale, func() (any, error) {
		current := c.session.AccessToken()
		switch {
		case current == "":
			c.metrics.observeRenewal(renewalFailure)
			return nil, errNoCredential()
		case current != stale:
			c.metrics.observeRenewal(renewalSkipped)
			return nil, nil
		}

		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.renewTimeout)
		defer cancel()

		token, err := c.requestRenewal(rctx, current)
		if err != nil {
			c.metrics.observeRenewal(renewalFailure)
			return nil, err
		}

		stored, err := c.session.CompareAndStore(rctx, current, token)
		if err != nil {
			c.metrics.observeRenewal(renewalFailure)
			return nil, fmt.Errorf("store renewed access token: %w", err)
		}
		if !stored && c.session.AccessToken() == "" {
			// Logged out while the renewal was in flight.
			c.metrics.observeRenewal(renewalFailure)
			return nil, errNoCredential()
		}

		c.metrics.observeRenewal(renewalSuccess)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return model.NewCancelledError(ctx)
	case res := <-ch:
		return res.Err
	}
}

func errNoCredential() error {
	return &model.FatalAuthError{
		StatusCode: http.StatusUnauthorized,
		Code:       model.CodeUnauthorized,
		Message:    model.ReloginMessage,
		Err:        errors.New("no access token to renew"),
	}
}

// requestRenewal calls the renewal endpoint with the stale token as bearer.
// A rejection with a code that cannot be retried is a *model.FatalAuthError
// whose Message is meant for the login view.
func (c *Client) requestRenewal(ctx context.Context, stale string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+renewPath, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("create renewal request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", "*/*")
	(&oauth2.Token{AccessToken: stale, TokenType: "Bearer"}).SetAuthHeader(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("renewal request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read renewal response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return "", &model.TransportError{StatusCode: resp.StatusCode, Body: body, Err: errNotJSON}
	}

	fields := gjson.GetManyBytes(body, "code", "message", "frontMessage", "data.accessToken")
	code := model.ErrorCode(fields[0].String())
	token := fields[3].String()

	if code == model.SuccessCode && token != "" {
		return token, nil
	}

	env := model.Envelope{Code: string(code), Message: fields[1].String(), FrontMessage: fields[2].String()}
	if code != "" && !code.IsRetryableAuth() && code != model.SuccessCode {
		return "", &model.FatalAuthError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    env.UserMessage(model.ReloginMessage),
		}
	}
	return "", &model.RetryableAuthError{Code: code, Message: env.UserMessage("renewal returned no access token")}
}
