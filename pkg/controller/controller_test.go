package controller_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"lead-scraper-go/pkg/controller"
	"lead-scraper-go/pkg/models"
	"lead-scraper-go/pkg/scraper"
	"lead-scraper-go/pkg/scraper/scrapertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingView wraps a StateView and records the call sequence
type recordingView struct {
	*controller.StateView
	mu    sync.Mutex
	calls []string
}

func newRecordingView() *recordingView {
	return &recordingView{StateView: controller.NewStateView(nil)}
}

func (v *recordingView) record(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, name)
}

func (v *recordingView) ShowLoading() {
	v.record("loading")
	v.StateView.ShowLoading()
}

func (v *recordingView) ShowSuccess(res scraper.Success) {
	v.record("success")
	v.StateView.ShowSuccess(res)
}

func (v *recordingView) ShowError(message string) {
	v.record("error")
	v.StateView.ShowError(message)
}

func (v *recordingView) ResetAffordance() {
	v.record("reset")
	v.StateView.ResetAffordance()
}

func (v *recordingView) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.calls...)
}

// stubSubmitter returns a canned result and checks the view is loading
// while the call is in flight
type stubSubmitter struct {
	t    *testing.T
	view *recordingView
	res  *scraper.Success
	err  error
	fn   func()
	got  []models.ScrapeRequest
}

func (s *stubSubmitter) Submit(ctx context.Context, req models.ScrapeRequest) (*scraper.Success, error) {
	s.got = append(s.got, req)
	state := s.view.State()
	assert.True(s.t, state.Busy, "affordance must be disabled during the call")
	assert.Equal(s.t, controller.PhaseLoading, state.Phase)
	assert.Equal(s.t, controller.BusyLabel, state.Label())
	assert.True(s.t, state.SpinnerVisible())
	assert.NotEmpty(s.t, scraper.SubmissionIDFromContext(ctx))
	if s.fn != nil {
		s.fn()
	}
	return s.res, s.err
}

func assertOneRegion(t *testing.T, state controller.UIState) {
	t.Helper()
	visible := 0
	for _, v := range []bool{state.LoadingVisible(), state.SuccessVisible(), state.ErrorVisible()} {
		if v {
			visible++
		}
	}
	assert.LessOrEqual(t, visible, 1)
}

func assertIdleAffordance(t *testing.T, state controller.UIState) {
	t.Helper()
	assert.False(t, state.Busy)
	assert.Equal(t, controller.IdleLabel, state.Label())
	assert.False(t, state.SpinnerVisible())
}

func TestOnSubmit_Outcomes(t *testing.T) {
	success := &scraper.Success{Message: "Done", TotalLeads: 42, Filename: "out.csv", DownloadPath: "/download/out.csv"}

	tests := []struct {
		name      string
		res       *scraper.Success
		err       error
		panics    bool
		wantPhase controller.Phase
		wantMsg   string
		wantCalls []string
	}{
		{
			name:      "success",
			res:       success,
			wantPhase: controller.PhaseSuccess,
			wantCalls: []string{"loading", "reset", "success"},
		},
		{
			name:      "application error with message",
			err:       &scraper.ScraperError{Type: scraper.ErrorTypeApplication, StatusCode: 200, Status: "partial", Message: "quota exceeded"},
			wantPhase: controller.PhaseError,
			wantMsg:   "quota exceeded",
			wantCalls: []string{"loading", "reset", "error"},
		},
		{
			name:      "application error without message",
			err:       &scraper.ScraperError{Type: scraper.ErrorTypeApplication, StatusCode: 500},
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.UnknownErrorMessage,
			wantCalls: []string{"loading", "reset", "error"},
		},
		{
			name:      "transport error",
			err:       &scraper.ScraperError{Type: scraper.ErrorTypeTransport, Message: "refused", Cause: errors.New("dial tcp: connection refused")},
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
			wantCalls: []string{"loading", "reset", "error"},
		},
		{
			name:      "untyped error",
			err:       errors.New("something odd"),
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
			wantCalls: []string{"loading", "reset", "error"},
		},
		{
			name:      "nil result without error",
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
			wantCalls: []string{"loading", "reset", "error"},
		},
		{
			name:      "submitter panics",
			panics:    true,
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
			wantCalls: []string{"loading", "reset", "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newRecordingView()
			stub := &stubSubmitter{t: t, view: view, res: tt.res, err: tt.err}
			if tt.panics {
				stub.fn = func() { panic("boom") }
			}

			ctrl := controller.New(stub, view, nil)
			outcome := ctrl.OnSubmit(context.Background(), controller.FormValues{City: "Austin", Query: "q", MaxLeads: "3"})

			assert.Equal(t, tt.wantCalls, view.Calls())
			assert.Equal(t, tt.wantPhase, outcome.Phase)
			assert.NotEmpty(t, outcome.SubmissionID)

			state := view.State()
			assert.Equal(t, tt.wantPhase, state.Phase)
			assertIdleAffordance(t, state)
			assertOneRegion(t, state)

			if tt.wantPhase == controller.PhaseError {
				assert.Equal(t, tt.wantMsg, state.ErrorMessage)
				assert.Equal(t, tt.wantMsg, outcome.Message)
				assert.Nil(t, state.Result)
			} else {
				require.NotNil(t, state.Result)
				assert.Equal(t, "Done", state.Result.Message)
				assert.Equal(t, 42, state.Result.TotalLeads)
				assert.Equal(t, "/download/out.csv", state.Result.DownloadPath)
			}
		})
	}
}

func TestOnSubmit_ForwardsRawValues(t *testing.T) {
	view := newRecordingView()
	stub := &stubSubmitter{t: t, view: view, err: &scraper.ScraperError{Type: scraper.ErrorTypeApplication}}

	ctrl := controller.New(stub, view, nil)
	ctrl.OnSubmit(context.Background(), controller.FormValues{City: "", Query: "  ", MaxLeads: "ten"})

	require.Len(t, stub.got, 1)
	assert.Equal(t, models.ScrapeRequest{City: "", Query: "  ", MaxLeads: "ten"}, stub.got[0])
}

func TestOnSubmit_ClearsPriorOutcome(t *testing.T) {
	view := newRecordingView()
	stub := &stubSubmitter{t: t, view: view, err: &scraper.ScraperError{Type: scraper.ErrorTypeApplication, Message: "first"}}
	ctrl := controller.New(stub, view, nil)

	ctrl.OnSubmit(context.Background(), controller.FormValues{})
	assert.Equal(t, controller.PhaseError, view.State().Phase)

	stub.err = nil
	stub.res = &scraper.Success{Message: "second", TotalLeads: 1, Filename: "b.csv"}
	ctrl.OnSubmit(context.Background(), controller.FormValues{})

	state := view.State()
	assert.Equal(t, controller.PhaseSuccess, state.Phase)
	assert.Empty(t, state.ErrorMessage)
	assertOneRegion(t, state)
}

func TestOnSubmit_AgainstBackend(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*scrapertest.Server)
		closed    bool
		wantPhase controller.Phase
		wantMsg   string
	}{
		{
			name:      "success",
			setup:     func(s *scrapertest.Server) { s.ReplySuccess("Done", 42, "out.csv") },
			wantPhase: controller.PhaseSuccess,
		},
		{
			name: "ok transport with non-success status",
			setup: func(s *scrapertest.Server) {
				s.Reply(scrapertest.Reply{StatusCode: http.StatusOK, Body: `{"status":"partial","message":"quota exceeded"}`})
			},
			wantPhase: controller.PhaseError,
			wantMsg:   "quota exceeded",
		},
		{
			name: "server error without message",
			setup: func(s *scrapertest.Server) {
				s.Reply(scrapertest.Reply{StatusCode: http.StatusInternalServerError, Body: `{"status":"error"}`})
			},
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.UnknownErrorMessage,
		},
		{
			name: "unparseable body",
			setup: func(s *scrapertest.Server) {
				s.Reply(scrapertest.Reply{StatusCode: http.StatusOK, Body: `not json`})
			},
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
		},
		{
			name:      "server down",
			setup:     func(s *scrapertest.Server) {},
			closed:    true,
			wantPhase: controller.PhaseError,
			wantMsg:   scraper.ConnectFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := scrapertest.NewServer()
			tt.setup(srv)
			url := srv.URL
			if tt.closed {
				srv.Close()
			} else {
				defer srv.Close()
			}

			view := newRecordingView()
			ctrl := controller.New(scraper.NewClient(url, 2*time.Second), view, nil)
			ctrl.OnSubmit(context.Background(), controller.FormValues{City: "Austin", Query: "Dentist", MaxLeads: "42"})

			state := view.State()
			assert.Equal(t, tt.wantPhase, state.Phase)
			assertIdleAffordance(t, state)
			assertOneRegion(t, state)

			if tt.wantPhase == controller.PhaseSuccess {
				require.NotNil(t, state.Result)
				assert.Equal(t, "Done", state.Result.Message)
				assert.Equal(t, 42, state.Result.TotalLeads)
				assert.Equal(t, "/download/out.csv", state.Result.DownloadPath)
				assert.Equal(t, url+"/download/out.csv", state.Result.DownloadURL)
			} else {
				assert.Equal(t, tt.wantMsg, state.ErrorMessage)
			}

			if !tt.closed {
				reqs := srv.Requests()
				require.Len(t, reqs, 1)
				assert.Equal(t, models.ScrapeRequest{City: "Austin", Query: "Dentist", MaxLeads: "42"}, reqs[0].Request)
				assert.NotEmpty(t, reqs[0].RequestID)
			}
		})
	}
}
