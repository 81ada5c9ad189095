package usecase

import (
	"strings"
	"testing"

	"realm/internal/domain"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	t.Parallel()

	content := "Acme Corp has operated for 30 years."
	prompt := BuildAnalysisPrompt(domain.Character, content)

	if !strings.HasPrefix(prompt, "Analyze the following content focusing on the Character aspect of the 5C method:\n\n") {
		t.Fatalf("unexpected prompt prefix: %q", prompt[:80])
	}
	if !strings.Contains(prompt, "\n\n"+content+"\n\n") {
		t.Fatalf("document content not embedded contiguously")
	}
	if !strings.Contains(prompt, "Character: Analyze the provided project document") {
		t.Fatalf("rubric not labeled with category")
	}
	if !strings.HasSuffix(prompt, "Provide key points and insights based on the given content.") {
		t.Fatalf("unexpected prompt suffix: %q", prompt[len(prompt)-80:])
	}
}

func TestRubricsCoverAllCategories(t *testing.T) {
	t.Parallel()

	for _, category := range domain.Categories() {
		rubric := Rubric(category)
		if rubric == "" {
			t.Fatalf("missing rubric for %s", category)
		}
		if !strings.Contains(rubric, "Scoring (0-5 scale):") {
			t.Fatalf("rubric for %s lacks scoring scale", category)
		}
		if !strings.Contains(rubric, string(category)+" score on a scale of 0-100") {
			t.Fatalf("rubric for %s lacks 0-100 score instruction", category)
		}
	}
	if Rubric("Bogus") != "" {
		t.Fatalf("expected empty rubric for unknown category")
	}
}

func TestBuildFollowUpPrompt(t *testing.T) {
	t.Parallel()

	analysis := map[domain.Category]string{
		domain.Capital: "strongly capitalized",
	}
	prompt := BuildFollowUpPrompt(analysis, "What is the main risk?")

	if !strings.HasPrefix(prompt, "Based on the 5C analysis provided earlier:\n\n") {
		t.Fatalf("unexpected prompt prefix: %q", prompt[:60])
	}
	if !strings.Contains(prompt, `"Capital": "strongly capitalized"`) {
		t.Fatalf("analysis not embedded as JSON: %q", prompt)
	}
	if !strings.Contains(prompt, "User: What is the main risk?") {
		t.Fatalf("question not embedded")
	}
}

func TestBuildFollowUpPromptWithoutAnalysis(t *testing.T) {
	t.Parallel()

	prompt := BuildFollowUpPrompt(nil, "hello")
	if !strings.Contains(prompt, "null") && !strings.Contains(prompt, "{}") {
		t.Fatalf("expected empty analysis serialization, got %q", prompt)
	}
	if !strings.Contains(prompt, "User: hello") {
		t.Fatalf("question not embedded")
	}
}
