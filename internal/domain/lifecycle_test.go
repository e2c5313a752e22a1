package domain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		action  Action
		want    Status
		wantErr bool
	}{
		{"archive active", StatusActive, ActionArchive, StatusArchived, false},
		{"restore archived", StatusArchived, ActionRestore, StatusActive, false},
		{"delete archived", StatusArchived, ActionDelete, StatusDeleted, false},
		{"edit active", StatusActive, ActionEdit, StatusActive, false},
		{"delete active", StatusActive, ActionDelete, StatusActive, true},
		{"archive archived", StatusArchived, ActionArchive, StatusArchived, true},
		{"restore active", StatusActive, ActionRestore, StatusActive, true},
		{"edit archived", StatusArchived, ActionEdit, StatusArchived, true},
		{"anything deleted", StatusDeleted, ActionRestore, StatusDeleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			if tt.wantErr {
				if !errors.Is(err, e.ErrTransitionNotAllowed) {
					t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllowedActions(t *testing.T) {
	if got := AllowedActions(StatusActive); !reflect.DeepEqual(got, []Action{ActionEdit, ActionArchive}) {
		t.Errorf("active: %v", got)
	}
	if got := AllowedActions(StatusArchived); !reflect.DeepEqual(got, []Action{ActionDelete, ActionRestore}) {
		t.Errorf("archived: %v", got)
	}
	if got := AllowedActions(StatusDeleted); len(got) != 0 {
		t.Errorf("deleted: %v", got)
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{"": StatusAll, "all": StatusAll, "active": StatusActive, "archived": StatusArchived} {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseStatus("deleted"); !errors.Is(err, e.ErrValidation) {
		t.Errorf("deleted is not a list filter, got %v", err)
	}
}

func TestStatusToggleAndArchived(t *testing.T) {
	if StatusActive.Toggle() != StatusArchived || StatusArchived.Toggle() != StatusActive {
		t.Fatal("toggle must flip active and archived")
	}

	if archived, ok := StatusArchived.Archived(); !ok || !archived {
		t.Error("archived filter")
	}
	if archived, ok := StatusActive.Archived(); !ok || archived {
		t.Error("active filter")
	}
	if _, ok := StatusAll.Archived(); ok {
		t.Error("all has no archived predicate")
	}
}

func TestConfirmationPrompt(t *testing.T) {
	if got := ConfirmationPrompt(ActionArchive); got != "Are you sure you want to archive this product?" {
		t.Errorf("archive prompt: %q", got)
	}
	if got := ConfirmationPrompt(ActionDelete); got != "Are you sure you want to permanently delete this product?" {
		t.Errorf("delete prompt: %q", got)
	}
}
