//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// Runs against a live `navigator serve`.
func baseURL() string {
	if v := os.Getenv("NAVIGATOR_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:8000"
}

func TestRespondentJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 60 * time.Second}
	base := baseURL()

	var before struct {
		Total int `json:"total"`
		Today int `json:"today"`
	}
	doGet(t, client, base+"/api/surveys/stats", &before)

	name := fmt.Sprintf("integration-%d", time.Now().UnixNano())
	var created struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	doPost(t, client, base+"/api/surveys", map[string]any{
		"age_group":         "25-34",
		"first_name":        name,
		"current_activity":  []string{"סטודנט"},
		"known_ai_tools":    []string{"ChatGPT", "Claude"},
		"ai_usage_level":    "מתחיל",
		"main_ai_goal":      "למידה",
		"ai_creation_dream": "assistant for " + name,
		"completion_time":   180,
	}, &created)
	if created.ID <= 0 || created.Message != "Survey created successfully" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	var fetched struct {
		ID           int64    `json:"id"`
		FirstName    string   `json:"first_name"`
		KnownAITools []string `json:"known_ai_tools"`
	}
	doGet(t, client, fmt.Sprintf("%s/api/surveys/%d", base, created.ID), &fetched)
	if fetched.FirstName != name || strings.Join(fetched.KnownAITools, ",") != "ChatGPT,Claude" {
		t.Fatalf("round trip mismatch: %+v", fetched)
	}

	var listed struct {
		Surveys []struct {
			ID int64 `json:"id"`
		} `json:"surveys"`
		Total int `json:"total"`
	}
	doGet(t, client, base+"/api/surveys?limit=1", &listed)
	if listed.Total != 1 || listed.Surveys[0].ID != created.ID {
		t.Fatalf("newest response not listed first: %+v", listed)
	}

	var after struct {
		Total int `json:"total"`
		Today int `json:"today"`
	}
	doGet(t, client, base+"/api/surveys/stats", &after)
	if after.Total != before.Total+1 || after.Today != before.Today+1 {
		t.Fatalf("stats did not move: before=%+v after=%+v", before, after)
	}

	var analysis struct {
		Analysis string `json:"analysis"`
		Source   string `json:"source"`
	}
	doPost(t, client, fmt.Sprintf("%s/api/surveys/%d/analysis", base, created.ID), map[string]any{}, &analysis)
	if strings.TrimSpace(analysis.Analysis) == "" || (analysis.Source != "remote" && analysis.Source != "fallback") {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}

	resp, err := client.Get(fmt.Sprintf("%s/api/surveys/%d", base, created.ID+1000000))
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing survey, got %d", resp.StatusCode)
	}
}

func doGet(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
}

func doPost(t *testing.T, client *http.Client, url string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
