package scans

import (
	"context"
	"errors"
	"strings"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
)

const (
	validationMessage    = "Content / snippet is required."
	analyzeFailedMessage = "Failed to analyze content. Please check backend & ML service."
)

var (
	// ErrValidation is returned without contacting the backend.
	ErrValidation = errors.New(validationMessage)
	// ErrAnalyzeFailed wraps any backend or transport failure on submit.
	ErrAnalyzeFailed = errors.New(analyzeFailedMessage)
	// ErrBusy is returned while a previous submit is still outstanding.
	ErrBusy = errors.New("submit already in progress")
)

// Submit sends a new scan for analysis. The form keeps url and content until
// the backend accepts the scan; the new scan is then placed first in the list
// and the form is cleared. An empty source defaults to dashboard.
func (vm *ViewModel) Submit(ctx context.Context, url, content string, source model.Source) (*model.Scan, error) {
	vm.mu.Lock()
	if vm.submitting {
		vm.mu.Unlock()
		return nil, ErrBusy
	}
	vm.form = Form{URL: url, Content: content}
	vm.submitErr = ""

	snippet := strings.TrimSpace(content)
	if snippet == "" {
		vm.submitErr = validationMessage
		vm.mu.Unlock()
		vm.publish()
		return nil, ErrValidation
	}
	vm.submitting = true
	vm.mu.Unlock()
	vm.publish()

	if source == "" {
		source = model.SourceDashboard
	}
	req := model.CreateScanRequest{ContentSnippet: snippet, Source: source}
	if u := strings.TrimSpace(url); u != "" {
		req.URL = &u
	}

	scan, err := vm.api.CreateScan(ctx, req)

	vm.mu.Lock()
	vm.submitting = false
	if err != nil || scan == nil {
		vm.submitErr = analyzeFailedMessage
		vm.mu.Unlock()
		vm.publish()
		if err == nil {
			err = errors.New("empty scan in response")
		}
		vm.logger.Error("error creating scan", logging.Field{Key: "error", Value: err})
		return nil, errors.Join(ErrAnalyzeFailed, err)
	}
	vm.scans = append([]model.Scan{*scan}, vm.scans...)
	vm.form = Form{}
	vm.mu.Unlock()
	vm.publish()

	vm.logger.Info("scan created",
		logging.Field{Key: "id", Value: scan.ID},
		logging.Field{Key: "label", Value: string(scan.ResultLabel)})
	return scan, nil
}

// Submitting reports whether a submit is outstanding.
func (vm *ViewModel) Submitting() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.submitting
}

// SetForm replaces the form input without submitting.
func (vm *ViewModel) SetForm(f Form) {
	vm.mu.Lock()
	vm.form = f
	vm.mu.Unlock()
	vm.publish()
}
