package gemini

import (
	"testing"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"google.golang.org/genai"
)

func TestSplitTurns(t *testing.T) {
	system, contents := splitTurns([]ragModel.ChatTurn{
		{Role: ragModel.RoleSystem, Content: "persona"},
		{Role: ragModel.RoleUser, Content: "q1"},
		{Role: ragModel.RoleAssistant, Content: "a1"},
		{Role: ragModel.RoleUser, Content: "q2"},
	})

	if system != "persona" {
		t.Errorf("system = %q; want persona", system)
	}
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	wantRoles := []string{string(genai.RoleUser), string(genai.RoleModel), string(genai.RoleUser)}
	for i, c := range contents {
		if string(c.Role) != wantRoles[i] {
			t.Errorf("content %d role = %q; want %q", i, c.Role, wantRoles[i])
		}
	}
	if contents[1].Parts[0].Text != "a1" {
		t.Errorf("unexpected text %q", contents[1].Parts[0].Text)
	}
}
