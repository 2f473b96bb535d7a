// Package portal checks the case status portal over plain HTTP, without a browser: whether the
// lookup form still has the controls the scraper drives, and which case types it offers.
package portal

import (
	"bytes"
	"casestatus-backend/internal/components/assert"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_form = "client.fetch-form"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

type Client struct {
	portalURL string
	http      *resty.Client
	tel       telemetry.API
}

func NewClient(portalURL string, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("portal", tel)

	parsed, err := url.Parse(portalURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("portal url %q is not absolute", portalURL)
	}

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	httpClient.SetTimeout(time.Second * 30)

	// 1 request per second, a government portal does not need more from a probe
	rateLimiter := rate.NewLimiter(1, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		portalURL: portalURL,
		http:      httpClient,
		tel:       tel,
	}, nil
}

// FetchForm loads the portal page and reports on its lookup form.
func (c *Client) FetchForm(ctx context.Context) (Form, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.portalURL)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_form, fmt.Errorf("fetch: %w", err), c.portalURL)
		return Form{}, err
	}
	if res.IsError() {
		err := fmt.Errorf("portal responded with %s", res.Status())
		c.tel.ReportWarning(report_client_fetch_form, err, c.portalURL)
		return Form{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_form, fmt.Errorf("parse: %w", err), c.portalURL)
		return Form{}, err
	}

	form := ParseForm(doc)
	if !form.Ready() {
		c.tel.ReportWarning(report_client_fetch_form, "lookup form is missing controls", form.MissingControls())
	}
	return form, nil
}
