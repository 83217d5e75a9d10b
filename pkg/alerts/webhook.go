/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

var (
	errWebhookDisabled   = errors.New("webhook alerter is disabled")
	errInvalidJSON       = errors.New("invalid JSON generated")
	errWebhookStatus     = errors.New("webhook returned non-2xx status")
	errTemplateParse     = errors.New("template parsing failed")
	errTemplateExecution = errors.New("template execution failed")
)

const (
	defaultWebhookTimeout = 10 * time.Second
	maxErrorBody          = 300
)

type WebhookConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	URL      string        `json:"url" yaml:"url"`
	Headers  []Header      `json:"headers,omitempty" yaml:"headers,omitempty"`   // Custom headers
	Template string        `json:"template,omitempty" yaml:"template,omitempty"` // Optional JSON template
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type WebhookAlerter struct {
	config     WebhookConfig
	client     *http.Client
	tmpl       *template.Template
	bufferPool *sync.Pool
	logger     *zap.Logger
}

func NewWebhookAlerter(config WebhookConfig, logger *zap.Logger) (*WebhookAlerter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.Name == "" {
		config.Name = "webhook"
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultWebhookTimeout
	}

	w := &WebhookAlerter{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
		logger: logger.With(zap.String("channel", config.Name)),
	}

	if config.Template != "" {
		tmpl, err := template.New(config.Name).
			Funcs(w.getTemplateFuncs()).
			Parse(config.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errTemplateParse, err)
		}

		w.tmpl = tmpl
	}

	return w, nil
}

func (w *WebhookAlerter) IsEnabled() bool {
	return w.config.Enabled && w.config.URL != ""
}

func (w *WebhookAlerter) Name() string {
	return w.config.Name
}

func (w *WebhookAlerter) getTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) (string, error) {
			buf := w.bufferPool.Get().(*bytes.Buffer)
			buf.Reset()
			defer w.bufferPool.Put(buf)

			enc := json.NewEncoder(buf)
			if err := enc.Encode(v); err != nil {
				return "", fmt.Errorf("JSON marshaling failed: %w", err)
			}

			return strings.TrimSpace(buf.String()), nil
		},
		"color": func(s models.State) int {
			return StateColor(s)
		},
		"truncate": func(n int, s string) string {
			if len(s) <= n {
				return s
			}

			return s[:n-3] + "..."
		},
	}
}

func (w *WebhookAlerter) Alert(ctx context.Context, alert *WebhookAlert) error {
	if !w.IsEnabled() {
		w.logger.Debug("Webhook alerter disabled, skipping alert", zap.String("title", alert.Title))
		return errWebhookDisabled
	}

	ensureTimestamp(alert)

	payload, err := w.preparePayload(alert)
	if err != nil {
		return fmt.Errorf("failed to prepare payload: %w", err)
	}

	return w.sendRequest(ctx, payload)
}

func ensureTimestamp(alert *WebhookAlert) {
	if alert.Timestamp == "" {
		alert.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
}

func (w *WebhookAlerter) preparePayload(alert *WebhookAlert) ([]byte, error) {
	if w.tmpl == nil {
		buf := w.bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer w.bufferPool.Put(buf)

		enc := json.NewEncoder(buf)
		if err := enc.Encode(alert); err != nil {
			return nil, fmt.Errorf("failed to marshal alert: %w", err)
		}

		return append([]byte(nil), buf.Bytes()...), nil
	}

	return w.executeTemplate(alert)
}

func (w *WebhookAlerter) executeTemplate(alert *WebhookAlert) ([]byte, error) {
	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	if err := w.tmpl.Execute(buf, map[string]interface{}{
		"alert": alert,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", errTemplateExecution, err)
	}

	if !json.Valid(buf.Bytes()) {
		return nil, errInvalidJSON
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func (w *WebhookAlerter) sendRequest(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	w.setHeaders(req)

	resp, err := w.client.Do(req) //nolint:bodyclose // Response body is closed later
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			w.logger.Warn("failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: status=%d body=%s", errWebhookStatus, resp.StatusCode, string(body))
	}

	return nil
}

func (w *WebhookAlerter) setHeaders(req *http.Request) {
	hasContentType := false

	for _, header := range w.config.Headers {
		if strings.EqualFold(header.Key, "content-type") {
			hasContentType = true
		}

		req.Header.Set(header.Key, header.Value)
	}

	if !hasContentType {
		req.Header.Set("Content-Type", "application/json")
	}
}
