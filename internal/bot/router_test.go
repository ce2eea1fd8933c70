// Package bot_test tests the intent classifier and message router.
package bot_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/flosclinic/benmeibot/internal/bot"
	"github.com/flosclinic/benmeibot/internal/config"
	"github.com/flosclinic/benmeibot/internal/database"
	"github.com/flosclinic/benmeibot/internal/recommend"
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

const routerDoc = `
categories:
  - id: laser
    name: 雷射光電
    treatments:
      - { id: pico, name: 皮秒雷射, description: 淡斑美白 }
  - id: hydration
    name: 水光注射
    treatments:
      - { id: skinbooster, name: 水光針, description: 深層補水 }
keywords:
  - { keyword: 美白, categories: [laser] }
reasons:
  laser: 雷射療程能有效淡斑美白
`

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(routerDoc))
	if err != nil {
		t.Fatalf("failed to parse test taxonomy: %v", err)
	}
	return tax
}

func testClassifier(t *testing.T) *bot.Classifier {
	t.Helper()
	return bot.NewClassifier(recommend.NewMatcher(testTaxonomy(t)))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	c := testClassifier(t)

	tests := []struct {
		name      string
		text      string
		want      bot.Intent
		wantCatID string
	}{
		{name: "drilldown token", text: "查看療程:laser", want: bot.IntentCategoryDrilldown, wantCatID: "laser"},
		{name: "drilldown full-width colon", text: "查看療程：laser", want: bot.IntentCategoryDrilldown, wantCatID: "laser"},
		{name: "drilldown beats consultation", text: "查看療程:laser 想要美白", want: bot.IntentCategoryDrilldown, wantCatID: "laser"},
		{name: "consultation via concern keyword", text: "我想要美白", want: bot.IntentConsultation},
		{name: "consultation via consult verb", text: "我想諮詢適合的療程", want: bot.IntentConsultation},
		{name: "consultation via advice request", text: "我需要專業建議", want: bot.IntentConsultation},
		{name: "consultation via treatment verb", text: "想要治療一下", want: bot.IntentConsultation},
		{name: "consultation via fallback concern", text: "皮膚好暗沉", want: bot.IntentConsultation},
		{name: "consultation beats greeting", text: "你好 想要美白", want: bot.IntentConsultation},
		{name: "anchored greeting", text: "hello there", want: bot.IntentGreeting},
		{name: "greeting chinese", text: "你好", want: bot.IntentGreeting},
		{name: "unanchored greeting is not greeting", text: "well hello", want: bot.IntentUnknown},
		{name: "greeting case-insensitive", text: "Hi大家", want: bot.IntentGreeting},
		{name: "staff roster chinese", text: "想看醫師陣容", want: bot.IntentStaffRoster},
		{name: "staff roster english", text: "doctor list", want: bot.IntentStaffRoster},
		{name: "clinic info", text: "診所資訊", want: bot.IntentClinicInfo},
		{name: "clinic address", text: "地址在哪", want: bot.IntentClinicInfo},
		{name: "help", text: "幫助", want: bot.IntentHelp},
		{name: "browse treatments", text: "療程介紹", want: bot.IntentTreatmentBrowse},
		{name: "booking", text: "我要預約", want: bot.IntentBooking},
		{name: "booking english", text: "booking please", want: bot.IntentBooking},
		{name: "aftercare revisit button", text: "預約回診", want: bot.IntentBooking},
		{name: "unknown", text: "xyz123", want: bot.IntentUnknown},
		{name: "empty", text: "", want: bot.IntentUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, catID := c.Classify(tc.text)
			if got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
			}
			if catID != tc.wantCatID {
				t.Errorf("Classify(%q) category = %q, want %q", tc.text, catID, tc.wantCatID)
			}
		})
	}
}

// fakeMessenger records every reply instead of calling the LINE API.
type fakeMessenger struct {
	texts    []string
	messages [][]messaging_api.MessageInterface
	replyErr error
}

func (f *fakeMessenger) ReplyText(_ context.Context, _, text string) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) Reply(_ context.Context, _ string, messages ...messaging_api.MessageInterface) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.messages = append(f.messages, messages)
	return nil
}

func (f *fakeMessenger) Push(context.Context, string, ...messaging_api.MessageInterface) error {
	return nil
}

// fakeStore stubs the doctor roster; the router touches nothing else.
type fakeStore struct {
	database.Store

	doctors    []database.Doctor
	doctorsErr error
}

func (f *fakeStore) ListActiveDoctors(context.Context) ([]database.Doctor, error) {
	return f.doctors, f.doctorsErr
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Clinic = config.DefaultClinic
	cfg.Messages = config.DefaultMessages
	cfg.Line.LiffID = "1234567890-test"
	return cfg
}

func newTestRouter(t *testing.T, store database.Store, messenger *fakeMessenger) *bot.Router {
	t.Helper()

	tax := testTaxonomy(t)
	return bot.NewRouter(bot.RouterDeps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:    testConfig(),
		Store:     store,
		Messenger: messenger,
		Taxonomy:  tax,
		Engine:    recommend.NewEngine(tax),
	}, bot.NewClassifier(recommend.NewMatcher(tax)))
}

func TestHandleText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("greeting replies greeting text", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "你好")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		txt, ok := m.messages[0][0].(*messaging_api.TextMessage)
		if !ok {
			t.Fatalf("reply = %T, want *TextMessage", m.messages[0][0])
		}
		if txt.Text != config.DefaultMessages.Greeting {
			t.Errorf("reply text = %q, want greeting", txt.Text)
		}
	})

	t.Run("consultation with match replies flex carousel", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "我想要美白")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		if _, ok := m.messages[0][0].(*messaging_api.FlexMessage); !ok {
			t.Errorf("reply = %T, want *FlexMessage", m.messages[0][0])
		}
	})

	t.Run("consultation without match replies fallback text", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "我想諮詢")

		if len(m.texts) != 1 || m.texts[0] != config.DefaultMessages.ConsultFallback {
			t.Errorf("texts = %v, want consult fallback", m.texts)
		}
	})

	t.Run("drilldown known category replies treatment list", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "查看療程:laser")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		flex, ok := m.messages[0][0].(*messaging_api.FlexMessage)
		if !ok {
			t.Fatalf("reply = %T, want *FlexMessage", m.messages[0][0])
		}
		if flex.AltText != "雷射光電 - 療程列表" {
			t.Errorf("AltText = %q, want treatment list title", flex.AltText)
		}
	})

	t.Run("drilldown unknown category replies not-found text", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "查看療程:nope")

		if len(m.texts) != 1 || m.texts[0] != config.DefaultMessages.CategoryNotFound {
			t.Errorf("texts = %v, want category-not-found text", m.texts)
		}
	})

	t.Run("browse replies category carousel", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "療程介紹")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		if _, ok := m.messages[0][0].(*messaging_api.FlexMessage); !ok {
			t.Errorf("reply = %T, want *FlexMessage", m.messages[0][0])
		}
	})

	t.Run("roster lists doctors", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{doctors: []database.Doctor{
			{Name: "陳醫師", Specialty: "皮膚科"},
			{Name: "林醫師", Specialty: "醫學美容"},
		}}
		m := &fakeMessenger{}
		newTestRouter(t, store, m).HandleText(ctx, "rt", "U1", "醫師")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		txt, ok := m.messages[0][0].(*messaging_api.TextMessage)
		if !ok {
			t.Fatalf("reply = %T, want *TextMessage", m.messages[0][0])
		}
		for _, want := range []string{"1. 陳醫師 - 皮膚科", "2. 林醫師 - 醫學美容"} {
			if !strings.Contains(txt.Text, want) {
				t.Errorf("roster %q missing line %q", txt.Text, want)
			}
		}
	})

	t.Run("store failure replies generic error", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{doctorsErr: errors.New("db down")}
		m := &fakeMessenger{}
		newTestRouter(t, store, m).HandleText(ctx, "rt", "U1", "醫師")

		if len(m.texts) != 1 || m.texts[0] != config.DefaultMessages.GeneralError {
			t.Errorf("texts = %v, want general error text", m.texts)
		}
	})

	t.Run("booking replies flex with booking url", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		tax := testTaxonomy(t)
		cfg := testConfig()
		cfg.Line.BookingURL = "https://example.com/booking"
		r := bot.NewRouter(bot.RouterDeps{
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			Config:    cfg,
			Store:     &fakeStore{},
			Messenger: m,
			Taxonomy:  tax,
			Engine:    recommend.NewEngine(tax),
		}, bot.NewClassifier(recommend.NewMatcher(tax)))

		r.HandleText(ctx, "rt", "U1", "我要預約")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		if _, ok := m.messages[0][0].(*messaging_api.FlexMessage); !ok {
			t.Errorf("reply = %T, want *FlexMessage", m.messages[0][0])
		}
	})

	t.Run("unknown replies fallback text", func(t *testing.T) {
		t.Parallel()

		m := &fakeMessenger{}
		newTestRouter(t, &fakeStore{}, m).HandleText(ctx, "rt", "U1", "xyz123")

		if len(m.messages) != 1 {
			t.Fatalf("got %d replies, want 1", len(m.messages))
		}
		txt, ok := m.messages[0][0].(*messaging_api.TextMessage)
		if !ok {
			t.Fatalf("reply = %T, want *TextMessage", m.messages[0][0])
		}
		if txt.Text != config.DefaultMessages.Unknown {
			t.Errorf("reply text = %q, want unknown text", txt.Text)
		}
	})
}
