package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type TransactionRequest struct {
	OrderID     string
	GrossAmount int64
	FirstName   string
	Email       string
}

type Transaction struct {
	Token       string
	RedirectURL string
}

// SnapClient requests hosted payment page tokens through the Midtrans Snap SDK.
type SnapClient struct {
	ServerKey string
	Env       midtrans.EnvironmentType
	// BaseURL replaces the scheme and host the SDK derives from Env.
	BaseURL    string
	HTTPClient *http.Client
}

func NewSnapClient(baseURL, serverKey string, production bool) *SnapClient {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	return &SnapClient{
		ServerKey:  serverKey,
		Env:        env,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// CreateTransaction has no timeout of its own; callers bound it through ctx.
func (c *SnapClient) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	client, err := c.sdkClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, merr := client.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			Email: req.Email,
		},
	})
	if merr != nil {
		if merr.RawError != nil {
			return nil, fmt.Errorf("snap status %d: %s: %w", merr.StatusCode, merr.Message, merr.RawError)
		}
		return nil, fmt.Errorf("snap status %d: %s", merr.StatusCode, merr.Message)
	}
	if resp == nil || resp.Token == "" {
		return nil, errors.New("snap response without token")
	}

	tx := &Transaction{Token: resp.Token, RedirectURL: resp.RedirectURL}
	if tx.RedirectURL == "" {
		tx.RedirectURL = c.RedirectURL(tx.Token)
	}
	return tx, nil
}

func (c *SnapClient) RedirectURL(token string) string {
	return c.BaseURL + "/snap/v2/vtweb/" + token
}

// sdkClient builds a Snap client whose requests carry ctx and go to BaseURL.
func (c *SnapClient) sdkClient(ctx context.Context) (*snap.Client, error) {
	var base *url.URL
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("snap base url: %w", err)
		}
		base = u
	}

	next := http.DefaultTransport
	if c.HTTPClient != nil && c.HTTPClient.Transport != nil {
		next = c.HTTPClient.Transport
	}
	hc := &http.Client{Transport: &endpointTransport{ctx: ctx, base: base, next: next}}
	if c.HTTPClient != nil {
		hc.Timeout = c.HTTPClient.Timeout
	}

	return &snap.Client{
		ServerKey: c.ServerKey,
		Env:       c.Env,
		HttpClient: &midtrans.HttpClientImplementation{
			HttpClient: hc,
			Logger:     sdkLogger{ctx: ctx},
		},
		Options: &midtrans.ConfigOptions{},
	}, nil
}

type endpointTransport struct {
	ctx  context.Context
	base *url.URL
	next http.RoundTripper
}

func (t *endpointTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(t.ctx)
	if t.base != nil {
		r.URL.Scheme = t.base.Scheme
		r.URL.Host = t.base.Host
		r.Host = t.base.Host
		if p := strings.TrimRight(t.base.Path, "/"); p != "" {
			r.URL.Path = p + r.URL.Path
		}
	}
	return t.next.RoundTrip(r)
}

// sdkLogger routes the SDK's own logging into the request logger.
type sdkLogger struct {
	ctx context.Context
}

func (l sdkLogger) Error(format string, a ...interface{}) {
	logging.FromContext(l.ctx).Error("snap_sdk", "detail", fmt.Sprintf(format, a...))
}

func (l sdkLogger) Info(format string, a ...interface{}) {
	logging.FromContext(l.ctx).Debug("snap_sdk", "detail", fmt.Sprintf(format, a...))
}

func (l sdkLogger) Debug(format string, a ...interface{}) {
	logging.FromContext(l.ctx).Debug("snap_sdk", "detail", fmt.Sprintf(format, a...))
}
