package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Pjt727/bookcs/data"
	"golang.org/x/time/rate"
)

const loginRequiredType = "login_required"

type PendingAction string

const (
	Accept PendingAction = "accept"
	Reject PendingAction = "reject"
)

func ParsePendingAction(s string) (PendingAction, error) {
	switch PendingAction(s) {
	case Accept, Reject:
		return PendingAction(s), nil
	}
	return "", fmt.Errorf("unknown pending action %q", s)
}

// Endpoints are the paths of the booking api relative to its base url
type Endpoints struct {
	Session       string
	Day           string
	Pending       string
	ManagePending string
	Login         string
	Register      string
	Logout        string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Session:       "/api/get_session_data.php",
		Day:           "/api/display_appointments_public.php",
		Pending:       "/api/display_pending.php",
		ManagePending: "/api/manage_pending.php",
		Login:         "/api/login.php",
		Register:      "/api/register.php",
		Logout:        "/api/logout.php",
	}
}

type Options struct {
	BaseURL   string
	Endpoints Endpoints
	// requests per second, 0 means unlimited
	RateLimit  float64
	Burst      int
	MaxRetries int
	// 0 means no timeout
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client talks to the booking api on behalf of a browser. Every call takes
// the cookies of the browser's request so the api sees the browser's session.
type Client struct {
	baseURL   string
	endpoints Endpoints
	http      *http.Client
	logger    *slog.Logger
}

func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	endpoints := opts.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := max(opts.Burst, 1)
	limiter := NewAdaptiveRateLimiter(limit, burst, limit/2)

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		endpoints: endpoints,
		http:      NewHTTPClient(logger, limiter, opts.MaxRetries, opts.Timeout),
		logger:    logger,
	}
}

type result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Type     string `json:"type,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (r result) err() error {
	if r.Success {
		return nil
	}
	return &APIError{Message: r.Message, Type: r.Type}
}

type sessionResponse struct {
	result
	Role      data.Role `json:"role"`
	MemberID  data.ID   `json:"member_id"`
	FirstName string    `json:"first_name"`
}

type dayResponse struct {
	result
	data.DaySchedule
}

type pendingResponse struct {
	result
	Appointments []data.PendingRequest `json:"appointments"`
}

// Session checks who the cookies belong to. An api that does not know the
// cookies answers success false which is the anonymous session, not an error.
func (c *Client) Session(ctx context.Context, cookies []*http.Cookie) (data.Session, error) {
	var body sessionResponse
	if _, err := c.do(ctx, http.MethodGet, c.endpoints.Session, cookies, nil, "", &body); err != nil {
		return data.Anonymous(), err
	}
	if !body.Success {
		return data.Anonymous(), nil
	}
	return data.Session{
		LoggedIn:  true,
		Role:      body.Role,
		MemberID:  body.MemberID,
		FirstName: body.FirstName,
	}, nil
}

// Day fetches the professors and appointments of date. When professorID is
// set and that professor is not part of the answer ErrProfessorNotFound is
// returned.
func (c *Client) Day(ctx context.Context, cookies []*http.Cookie, date data.Date, professorID data.ID) (data.DaySchedule, error) {
	form := url.Values{}
	form.Set("date", date.String())
	if professorID != "" {
		form.Set("professor_id", professorID.String())
	}

	var body dayResponse
	_, err := c.do(ctx, http.MethodPost, c.endpoints.Day, cookies,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &body)
	if err != nil {
		return data.DaySchedule{}, err
	}
	if err := body.err(); err != nil {
		return data.DaySchedule{}, err
	}

	day := body.DaySchedule
	if professorID != "" {
		if _, ok := day.Professor(professorID); !ok {
			return day, fmt.Errorf("%w: %s", ErrProfessorNotFound, professorID)
		}
	}
	return day, nil
}

// Pending lists the logged in professor's pending requests
func (c *Client) Pending(ctx context.Context, cookies []*http.Cookie) ([]data.PendingRequest, error) {
	var body pendingResponse
	if _, err := c.do(ctx, http.MethodGet, c.endpoints.Pending, cookies, nil, "", &body); err != nil {
		return nil, err
	}
	if err := body.err(); err != nil {
		return nil, err
	}
	if body.Appointments == nil {
		return []data.PendingRequest{}, nil
	}
	return body.Appointments, nil
}

// ManagePending accepts or rejects a request and returns the api's message
func (c *Client) ManagePending(ctx context.Context, cookies []*http.Cookie, appointmentID data.ID, action PendingAction) (string, error) {
	payload, contentType, err := multipartBody(url.Values{
		"appointment_id": {appointmentID.String()},
		"action":         {string(action)},
	})
	if err != nil {
		return "", err
	}

	var body result
	if _, err := c.do(ctx, http.MethodPost, c.endpoints.ManagePending, cookies, payload, contentType, &body); err != nil {
		return "", err
	}
	if err := body.err(); err != nil {
		return "", err
	}
	return body.Message, nil
}

// FormResult is the answer to a login or register form
type FormResult struct {
	Redirect string
	Message  string
	// session cookies set by the api, to be handed to the browser
	Cookies []*http.Cookie
}

func (c *Client) Login(ctx context.Context, cookies []*http.Cookie, form url.Values) (FormResult, error) {
	return c.submitForm(ctx, c.endpoints.Login, cookies, form)
}

func (c *Client) Register(ctx context.Context, cookies []*http.Cookie, form url.Values) (FormResult, error) {
	return c.submitForm(ctx, c.endpoints.Register, cookies, form)
}

func (c *Client) submitForm(ctx context.Context, endpoint string, cookies []*http.Cookie, form url.Values) (FormResult, error) {
	payload, contentType, err := multipartBody(form)
	if err != nil {
		return FormResult{}, err
	}
	var body result
	resp, err := c.do(ctx, http.MethodPost, endpoint, cookies, payload, contentType, &body)
	if err != nil {
		return FormResult{}, err
	}
	if err := body.err(); err != nil {
		return FormResult{}, err
	}
	return FormResult{
		Redirect: body.Redirect,
		Message:  body.Message,
		Cookies:  resp.Cookies(),
	}, nil
}

// Logout ends the api session and returns the cookies the api cleared
func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) ([]*http.Cookie, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoints.Logout, cookies, nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTemporaryNetworkFailure, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// the api redirects back to its home page after logging out
	if resp.StatusCode >= 400 {
		return nil, RespOrStatusErr(resp, nil)
	}
	return resp.Cookies(), nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	endpoint string,
	cookies []*http.Cookie,
	body io.Reader,
	contentType string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req, nil
}

// do sends one request and decodes the json answer into out
func (c *Client) do(
	ctx context.Context,
	method string,
	endpoint string,
	cookies []*http.Cookie,
	body io.Reader,
	contentType string,
	out any,
) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, endpoint, cookies, body, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err := RespOrStatusErr(resp, err); err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.logger.WarnContext(ctx, "booking api call failed", "endpoint", endpoint, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.WarnContext(ctx, "could not decode booking api response", "endpoint", endpoint, "err", err)
		return nil, fmt.Errorf("%w from %s: %w", ErrMalformedResponse, endpoint, err)
	}
	return resp, nil
}

func multipartBody(form url.Values) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, value := range values {
			if err := w.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
