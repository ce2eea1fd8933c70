package aftercare

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const (
	cardThemeColor  = "#9b59b6"
	cardAccentColor = "#e74c3c"
)

// Card renders the follow-up flex message pushed to a user on a care day.
func Card(userName, treatmentName string, day int, msg Message, clinicPhone string) *messaging_api.FlexMessage {
	bodyContents := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{
			Text:   fmt.Sprintf("%s 療程後第 %d 天", treatmentName, day),
			Size:   "md",
			Weight: "bold",
			Color:  cardThemeColor,
			Margin: "md",
		},
		&messaging_api.FlexSeparator{Margin: "lg"},
		&messaging_api.FlexText{
			Text:   msg.Greeting,
			Size:   "sm",
			Color:  "#666666",
			Wrap:   true,
			Margin: "lg",
		},
		listBox("📋 注意事項", "• ", "#666666", msg.Tips),
	}
	if len(msg.Recommendations) > 0 {
		bodyContents = append(bodyContents, listBox("💡 建議", "✓ ", cardThemeColor, msg.Recommendations))
	}

	bubble := messaging_api.FlexBubble{
		Size: "mega",
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "💖 術後關懷", Color: "#ffffff", Size: "xl", Weight: "bold"},
				&messaging_api.FlexText{Text: userName + "，您好！", Color: "#ffffff", Size: "sm", Margin: "sm"},
			},
			BackgroundColor: cardThemeColor,
			PaddingAll:      "20px",
		},
		Body: &messaging_api.FlexBox{
			Layout:     "vertical",
			Contents:   bodyContents,
			PaddingAll: "20px",
		},
		Footer: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{
					Text:  "如有任何不適或疑問，請立即聯繫我們",
					Size:  "xs",
					Color: "#999999",
					Align: "center",
					Wrap:  true,
				},
				&messaging_api.FlexButton{
					Style:  "primary",
					Height: "sm",
					Color:  cardAccentColor,
					Margin: "md",
					Action: &messaging_api.UriAction{Label: "聯絡診所", Uri: "tel:" + clinicPhone},
				},
				&messaging_api.FlexButton{
					Style:  "link",
					Height: "sm",
					Margin: "sm",
					Action: &messaging_api.MessageAction{Label: "我想預約回診", Text: "預約回診"},
				},
			},
			PaddingAll: "20px",
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  userName + "，您的術後關懷提醒",
		Contents: &bubble,
	}
}

func listBox(title, bullet, itemColor string, items []string) *messaging_api.FlexBox {
	contents := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{Text: title, Size: "sm", Weight: "bold", Color: "#333333", Margin: "lg"},
	}
	for _, item := range items {
		contents = append(contents, &messaging_api.FlexText{
			Text:   bullet + item,
			Size:   "sm",
			Color:  itemColor,
			Wrap:   true,
			Margin: "sm",
		})
	}
	return &messaging_api.FlexBox{Layout: "vertical", Contents: contents}
}
