package contactform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relay starts a fake relay endpoint replying with status and body, counting requests
func relay(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, *Draft) {
	t.Helper()
	var calls atomic.Int32
	var got Draft
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/send-email", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, &got
}

func fill(t *testing.T, f *Form, name, email, message string) {
	t.Helper()
	require.NoError(t, f.Set("name", name))
	require.NoError(t, f.Set("email", email))
	require.NoError(t, f.Set("message", message))
}

func TestSubmitSuccessClearsDraft(t *testing.T) {
	srv, calls, got := relay(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)
	f := New(NewClient(srv.URL, 2*time.Second))
	fill(t, f, " Jane Doe ", "jane@example.com", "I need a website quote.")

	res, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Success: true, Message: "Email sent successfully!"}, res)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, Draft{}, f.Draft())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Jane Doe", got.Name)

	// locked until the user asks to send another
	assert.ErrorIs(t, f.Set("name", "x"), ErrLocked)
	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, f.Reset())
	assert.Equal(t, StateIdle, f.State())
	_, ok := f.Last()
	assert.False(t, ok)
}

func TestSubmitValidationNeverDispatches(t *testing.T) {
	srv, calls, _ := relay(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)

	cases := []struct {
		name    string
		draft   Draft
		invalid string
	}{
		{"empty name", Draft{"", "jane@example.com", "I need a website quote."}, "name"},
		{"whitespace name", Draft{"   ", "jane@example.com", "I need a website quote."}, "name"},
		{"short name", Draft{"J", "jane@example.com", "I need a website quote."}, "name"},
		{"multi-line name", Draft{"Jane\r\nBcc: x@example.com", "jane@example.com", "I need a website quote."}, "name"},
		{"emoji name", Draft{"Jane \U0001F600", "jane@example.com", "I need a website quote."}, "name"},
		{"empty email", Draft{"Jane", "", "I need a website quote."}, "email"},
		{"no at sign", Draft{"Jane", "jane.example.com", "I need a website quote."}, "email"},
		{"no local part", Draft{"Jane", "@example.com", "I need a website quote."}, "email"},
		{"spaces in email", Draft{"Jane", "jane doe@example.com", "I need a website quote."}, "email"},
		{"whitespace message", Draft{"Jane", "jane@example.com", " \n\t "}, "message"},
		{"short message", Draft{"Jane", "jane@example.com", "Hi"}, "message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New(NewClient(srv.URL, time.Second))
			fill(t, f, tc.draft.Name, tc.draft.Email, tc.draft.Message)

			_, err := f.Submit(context.Background())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.invalid)
			assert.Equal(t, StateIdle, f.State())
			assert.Equal(t, tc.draft, f.Draft())
		})
	}

	assert.Equal(t, int32(0), calls.Load())
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	srv, calls, _ := relay(t, http.StatusInternalServerError, `{"success":false,"message":"Failed to send email."}`)
	f := New(NewClient(srv.URL, time.Second))
	fill(t, f, "Jane Doe", "jane@example.com", "I need a website quote.")

	res, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Success: false, Message: GenericFailure}, res)
	assert.NotContains(t, res.Message, "Failed to send email.")
	assert.Equal(t, StateFailure, f.State())
	assert.Equal(t, "Jane Doe", f.Draft().Name)

	// retry is a new user-initiated submission, never automatic
	assert.Equal(t, int32(1), calls.Load())
	require.NoError(t, f.Set("message", "I need a website quote, please."))
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientSynthesizesGenericFailure(t *testing.T) {
	generic := Result{Success: false, Message: GenericFailure}
	draft := Draft{Name: "Jane", Email: "jane@example.com", Message: "I need a website quote."}

	t.Run("malformed body", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusOK, `<html>oops</html>`)
		assert.Equal(t, generic, NewClient(srv.URL, time.Second).Send(context.Background(), draft))
	})

	t.Run("missing fields in body", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusOK, `{"status":"ok"}`)
		assert.Equal(t, generic, NewClient(srv.URL, time.Second).Send(context.Background(), draft))
	})

	t.Run("405 without success flag", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusMethodNotAllowed, `{"message":"Method not allowed."}`)
		assert.Equal(t, generic, NewClient(srv.URL, time.Second).Send(context.Background(), draft))
	})

	t.Run("non-2xx claiming success", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusBadGateway, `{"success":true,"message":"ok"}`)
		assert.Equal(t, generic, NewClient(srv.URL, time.Second).Send(context.Background(), draft))
	})

	t.Run("network error", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()
		assert.Equal(t, generic, NewClient(url, time.Second).Send(context.Background(), draft))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()
		assert.Equal(t, generic, NewClient(srv.URL, 100*time.Millisecond).Send(context.Background(), draft))
	})
}

func TestFailureOffersFallbackContact(t *testing.T) {
	const fallback = "hello@elitesite.example"
	want := "Failed to send message, try again or contact us directly. You can also reach us at hello@elitesite.example"

	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"request error", http.StatusBadRequest, `{"success":false,"message":"Missing required fields: name, email, and message are required"}`},
		{"transport error", http.StatusInternalServerError, `{"success":false,"message":"Failed to send email."}`},
		{"rate limited", http.StatusTooManyRequests, `{"success":false,"message":"Too many requests"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _, _ := relay(t, tc.status, tc.body)
			f := New(NewClient(srv.URL, time.Second).WithFallback(fallback))
			fill(t, f, "Jane Doe", "jane@example.com", "I need a website quote.")

			res, err := f.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StateFailure, f.State())
			assert.Equal(t, Result{Success: false, Message: want}, res)
		})
	}

	t.Run("network error", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()
		res := NewClient(url, time.Second).WithFallback(fallback).Send(context.Background(), Draft{})
		assert.Equal(t, want, res.Message)
	})

	t.Run("success is untouched", func(t *testing.T) {
		srv, _, _ := relay(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)
		res := NewClient(srv.URL, time.Second).WithFallback(fallback).Send(context.Background(), Draft{})
		assert.Equal(t, Result{Success: true, Message: "Email sent successfully!"}, res)
	})
}

func TestWellFormedRejectionWithoutErrorStatus(t *testing.T) {
	srv, _, _ := relay(t, http.StatusOK, `{"success":false,"message":"Submissions are paused."}`)
	res := NewClient(srv.URL, time.Second).Send(context.Background(), Draft{})
	assert.Equal(t, Result{Success: false, Message: "Submissions are paused."}, res)
}

// blockingSender holds the first Send until release is closed
type blockingSender struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, _ Draft) Result {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	<-b.release
	return Result{Success: true, Message: "Email sent successfully!"}
}

func TestSubmitWhilePendingIsRejected(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	f := New(sender)
	fill(t, f, "Jane Doe", "jane@example.com", "I need a website quote.")

	done := make(chan Result)
	go func() {
		res, _ := f.Submit(context.Background())
		done <- res
	}()

	<-sender.started
	assert.Equal(t, StatePending, f.State())

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, f.Set("name", "Other"), ErrLocked)
	assert.ErrorIs(t, f.Reset(), ErrBusy)

	close(sender.release)
	res := <-done
	assert.True(t, res.Success)
	assert.Equal(t, int32(1), sender.calls.Load())
	assert.Equal(t, StateSuccess, f.State())
}

func TestValidateAcceptsAccentedNames(t *testing.T) {
	f := New(&blockingSender{})
	err := Validate(f.validate, Draft{Name: "José Müller-Øst", Email: "jose@example.com", Message: "I need a website quote."})
	assert.NoError(t, err)
}

func TestSetUnknownField(t *testing.T) {
	f := New(&blockingSender{})
	assert.ErrorIs(t, f.Set("phone", "123"), ErrUnknownField)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "failure", StateFailure.String())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"message": "Message is required",
		"email":   "Please enter a valid email address",
	}}
	assert.Equal(t, "contactform: Please enter a valid email address; Message is required", err.Error())
}
