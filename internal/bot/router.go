// Package bot implements the LINE webhook surface, message-intent routing,
// lifecycle management, and component orchestration for the clinic bot.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/flosclinic/benmeibot/internal/config"
	"github.com/flosclinic/benmeibot/internal/database"
	"github.com/flosclinic/benmeibot/internal/lineutil"
	"github.com/flosclinic/benmeibot/internal/recommend"
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

// Intent is the classified meaning of one inbound text message.
type Intent int

// Intents in routing-precedence order. Earlier intents win when a message
// could match several.
const (
	IntentUnknown Intent = iota
	IntentCategoryDrilldown
	IntentConsultation
	IntentGreeting
	IntentStaffRoster
	IntentClinicInfo
	IntentHelp
	IntentTreatmentBrowse
	IntentBooking
)

var intentNames = map[Intent]string{
	IntentUnknown:           "unknown",
	IntentCategoryDrilldown: "category_drilldown",
	IntentConsultation:      "consultation",
	IntentGreeting:          "greeting",
	IntentStaffRoster:       "staff_roster",
	IntentClinicInfo:        "clinic_info",
	IntentHelp:              "help",
	IntentTreatmentBrowse:   "treatment_browse",
	IntentBooking:           "booking",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

var (
	// Drilldown messages come from carousel buttons, so the token format is
	// fixed. The full-width colon shows up when users type it by hand.
	drilldownPattern = regexp.MustCompile(`查看療程[:：](\w+)`)
	greetingPattern  = regexp.MustCompile(`(?i)^(hi|hello|你好|嗨|哈囉)`)
)

// Consultation verbs that signal a treatment question even without a concern
// noun the matcher knows.
var consultWords = []string{"諮詢", "推薦", "適合", "建議", "想要", "需要", "改善", "治療", "困擾", "煩惱", "想做"}

// Classifier assigns an Intent to a message. Classification is pure: no
// collaborator calls, one terminal match per message.
type Classifier struct {
	matcher *recommend.Matcher
}

// NewClassifier returns a classifier whose consultation check also covers the
// matcher's concern vocabulary.
func NewClassifier(matcher *recommend.Matcher) *Classifier {
	return &Classifier{matcher: matcher}
}

// Classify evaluates the precedence chain and returns the first matching
// intent. For IntentCategoryDrilldown the second return is the extracted
// category id; it is empty for every other intent.
func (c *Classifier) Classify(text string) (Intent, string) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	if m := drilldownPattern.FindStringSubmatch(text); m != nil {
		return IntentCategoryDrilldown, m[1]
	}
	if containsAny(text, consultWords...) || len(c.matcher.Match(text)) > 0 {
		return IntentConsultation, ""
	}
	if greetingPattern.MatchString(text) {
		return IntentGreeting, ""
	}
	if strings.Contains(text, "醫師") || strings.Contains(lower, "doctor") {
		return IntentStaffRoster, ""
	}
	if containsAny(text, "診所資訊", "診所", "地址", "電話", "營業時間") {
		return IntentClinicInfo, ""
	}
	if strings.Contains(text, "幫助") || strings.Contains(text, "說明") || strings.Contains(lower, "help") {
		return IntentHelp, ""
	}
	if containsAny(text, "療程介紹", "療程項目", "服務項目") {
		return IntentTreatmentBrowse, ""
	}
	if containsAny(text, "預約", "約診") || strings.Contains(lower, "booking") {
		return IntentBooking, ""
	}
	return IntentUnknown, ""
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// RouterDeps provides dependencies for message routing.
type RouterDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Messenger lineutil.Messenger
	Taxonomy  *taxonomy.Taxonomy
	Engine    *recommend.Engine
}

// Router dispatches classified messages to their reply flows. All collaborator
// failures are absorbed here: the user gets the generic error text and the
// webhook surface never sees a fault.
type Router struct {
	deps       RouterDeps
	classifier *Classifier
	logger     *slog.Logger
}

// NewRouter creates a Router with the given dependencies.
func NewRouter(deps RouterDeps, classifier *Classifier) *Router {
	return &Router{
		deps:       deps,
		classifier: classifier,
		logger:     deps.Logger.With("component", "router"),
	}
}

// HandleText routes one inbound text message and replies exactly once.
func (r *Router) HandleText(ctx context.Context, replyToken, userID, text string) {
	intent, categoryID := r.classifier.Classify(text)
	r.logger.InfoContext(ctx, "Routing message", "intent", intent, "user_id", userID)

	if err := r.dispatch(ctx, replyToken, intent, categoryID, text); err != nil {
		r.logger.ErrorContext(ctx, "Failed to handle message",
			"intent", intent, "user_id", userID, "error", err)
		if replyErr := r.deps.Messenger.ReplyText(ctx, replyToken, r.deps.Config.Messages.GeneralError); replyErr != nil {
			r.logger.ErrorContext(ctx, "Failed to send error reply", "error", replyErr)
		}
	}
}

// dispatch replies according to intent. The flex-building intents
// (consultation, drilldown, browse) send their dynamically built payloads
// directly; the remaining intents resolve to a single message value delivered
// by the shared tail. Either way exactly one reply goes out per message.
func (r *Router) dispatch(ctx context.Context, replyToken string, intent Intent, categoryID, text string) error {
	msgs := r.deps.Config.Messages

	switch intent {
	case IntentCategoryDrilldown:
		return r.replyDrilldown(ctx, replyToken, categoryID)
	case IntentConsultation:
		return r.replyConsultation(ctx, replyToken, text)
	case IntentTreatmentBrowse:
		carousel := lineutil.CategorySelectionCarousel(r.deps.Taxonomy.Categories)
		return r.deps.Messenger.Reply(ctx, replyToken, carousel)
	}

	var reply messaging_api.MessageInterface
	switch intent {
	case IntentGreeting:
		reply = &messaging_api.TextMessage{Text: msgs.Greeting}
	case IntentStaffRoster:
		roster, err := r.doctorListText(ctx)
		if err != nil {
			return err
		}
		reply = &messaging_api.TextMessage{Text: roster}
	case IntentClinicInfo:
		reply = lineutil.ClinicInfoMessage(r.deps.Config.Clinic)
	case IntentHelp:
		reply = &messaging_api.TextMessage{Text: msgs.Help}
	case IntentBooking:
		reply = lineutil.BookingMessage(msgs.BookingPrompt, r.deps.Config.Line.BookingURL)
	default:
		reply = &messaging_api.TextMessage{Text: msgs.Unknown}
	}
	return r.deps.Messenger.Reply(ctx, replyToken, reply)
}

func (r *Router) replyDrilldown(ctx context.Context, replyToken, categoryID string) error {
	category := r.deps.Taxonomy.Category(categoryID)
	if category == nil {
		r.logger.WarnContext(ctx, "Drilldown for unknown category", "category_id", categoryID)
		return r.deps.Messenger.ReplyText(ctx, replyToken, r.deps.Config.Messages.CategoryNotFound)
	}
	return r.deps.Messenger.Reply(ctx, replyToken, lineutil.TreatmentListMessage(category, r.deps.Config.Line.LiffID))
}

func (r *Router) replyConsultation(ctx context.Context, replyToken, text string) error {
	recs := r.deps.Engine.Recommend(text)
	if len(recs) == 0 {
		return r.deps.Messenger.ReplyText(ctx, replyToken, r.deps.Config.Messages.ConsultFallback)
	}
	return r.deps.Messenger.Reply(ctx, replyToken, lineutil.RecommendationCarousel(recs, r.deps.Config.Line.LiffID))
}

func (r *Router) doctorListText(ctx context.Context) (string, error) {
	doctors, err := r.deps.Store.ListActiveDoctors(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load doctor roster: %w", err)
	}
	names := make([]string, 0, len(doctors))
	for _, d := range doctors {
		names = append(names, fmt.Sprintf("%s - %s", d.Name, d.Specialty))
	}
	return lineutil.DoctorListText(
		r.deps.Config.Messages.DoctorListHeader,
		r.deps.Config.Messages.DoctorListFooter,
		names,
	), nil
}
