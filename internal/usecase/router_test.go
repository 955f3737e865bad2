//go:build !integration

package usecase_test

import (
	"testing"

	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

func TestRouter_Route(t *testing.T) {
	var r usecase.Router

	cases := []struct {
		name  string
		input string
		want  model.ChatChannel
	}{
		{"plain message", "I hear that you're upset", model.ChannelPartner},
		{"coach prefix", "@coach what should I say?", model.ChannelCoach},
		{"coach prefix uppercase", "@COACH help me", model.ChannelCoach},
		{"coach prefix with leading spaces", "  @coach advice please", model.ChannelCoach},
		{"bare prefix", "@coach", model.ChannelCoach},
		{"prefix mid-message", "hey @coach what now", model.ChannelPartner},
		{"word coach without at-sign", "coach, help", model.ChannelPartner},
		{"empty", "", model.ChannelPartner},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Route(tc.input); got != tc.want {
				t.Errorf("Route(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestStripCoachPrefix(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"@coach what should I say?", "what should I say?"},
		{"  @COACH   help me  ", "help me"},
		{"@coach", ""},
		{"no prefix here", "no prefix here"},
	}
	for _, tc := range cases {
		if got := usecase.StripCoachPrefix(tc.input); got != tc.want {
			t.Errorf("StripCoachPrefix(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
