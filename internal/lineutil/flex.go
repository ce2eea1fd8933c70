package lineutil

import (
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/flosclinic/benmeibot/internal/config"
	"github.com/flosclinic/benmeibot/internal/recommend"
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

// Visual constants shared by all cards.
const (
	themeColor  = "#9b59b6"
	accentColor = "#e74c3c"
	bodyColor   = "#666666"
	mutedColor  = "#999999"

	categoriesPerPage     = 8
	maxTreatmentsPerList  = 10
	maxBenefitsPerListing = 3
)

func liffURI(liffID string) string {
	return "https://liff.line.me/" + liffID
}

// RecommendationCarousel renders consultation recommendations as a carousel,
// one bubble per recommended category.
func RecommendationCarousel(recs []recommend.Recommendation, liffID string) *messaging_api.FlexMessage {
	bubbles := make([]messaging_api.FlexBubble, 0, len(recs))
	for _, rec := range recs {
		bodyContents := []messaging_api.FlexComponentInterface{
			&messaging_api.FlexText{
				Text:   rec.Reason,
				Color:  bodyColor,
				Size:   "sm",
				Wrap:   true,
				Margin: "md",
			},
			&messaging_api.FlexSeparator{Margin: "lg"},
		}
		for i, treatment := range rec.Treatments {
			bodyContents = append(bodyContents, treatmentSummaryBox(treatment))
			if i < len(rec.Treatments)-1 {
				bodyContents = append(bodyContents, &messaging_api.FlexSeparator{Margin: "md"})
			}
		}

		bubbles = append(bubbles, messaging_api.FlexBubble{
			Size: "mega",
			Header: &messaging_api.FlexBox{
				Layout: "vertical",
				Contents: []messaging_api.FlexComponentInterface{
					&messaging_api.FlexText{Text: "💖 為您推薦", Color: "#ffffff", Size: "sm", Weight: "bold"},
					&messaging_api.FlexText{Text: rec.Category.Name, Color: "#ffffff", Size: "xl", Weight: "bold", Margin: "sm"},
				},
				BackgroundColor: themeColor,
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
					&messaging_api.FlexText{Text: "💡 價格與詳細資訊", Size: "xs", Color: mutedColor, Align: "center"},
					&messaging_api.FlexText{Text: "依照醫美法規，請來店諮詢", Size: "xs", Color: mutedColor, Align: "center", Margin: "xs"},
					&messaging_api.FlexButton{
						Style:  "primary",
						Height: "sm",
						Color:  themeColor,
						Margin: "md",
						Action: &messaging_api.UriAction{Label: "立即預約諮詢", Uri: liffURI(liffID)},
					},
					&messaging_api.FlexButton{
						Style:  "link",
						Height: "sm",
						Margin: "sm",
						Action: &messaging_api.MessageAction{Label: "查看更多療程", Text: "療程介紹"},
					},
				},
				PaddingAll: "20px",
			},
		})
	}

	return &messaging_api.FlexMessage{
		AltText:  "為您推薦的療程",
		Contents: &messaging_api.FlexCarousel{Contents: bubbles},
	}
}

func treatmentSummaryBox(treatment taxonomy.Treatment) *messaging_api.FlexBox {
	contents := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{Text: treatment.Name, Size: "md", Weight: "bold", Color: themeColor, Margin: "lg"},
		&messaging_api.FlexText{Text: treatment.Description, Size: "sm", Color: bodyColor, Wrap: true, Margin: "sm"},
	}
	if len(treatment.Benefits) > 0 {
		contents = append(contents, benefitsBox(treatment.Benefits))
	}
	return &messaging_api.FlexBox{
		Layout:   "vertical",
		Contents: contents,
		Margin:   "md",
	}
}

func benefitsBox(benefits []string) *messaging_api.FlexBox {
	if len(benefits) > maxBenefitsPerListing {
		benefits = benefits[:maxBenefitsPerListing]
	}
	items := make([]messaging_api.FlexComponentInterface, 0, len(benefits))
	for _, benefit := range benefits {
		items = append(items, &messaging_api.FlexText{
			Text:   "✓ " + benefit,
			Size:   "xs",
			Color:  mutedColor,
			Margin: "xs",
		})
	}
	return &messaging_api.FlexBox{Layout: "vertical", Contents: items, Margin: "sm"}
}

// CategorySelectionCarousel renders the category browse flow: categories in
// declared order, paginated in groups of eight, followed by a "need help
// choosing" bubble.
func CategorySelectionCarousel(categories []taxonomy.Category) *messaging_api.FlexMessage {
	pages := (len(categories) + categoriesPerPage - 1) / categoriesPerPage
	total := pages + 1 // trailing help bubble

	bubbles := make([]messaging_api.FlexBubble, 0, total)
	for page := 0; page < pages; page++ {
		start := page * categoriesPerPage
		end := start + categoriesPerPage
		if end > len(categories) {
			end = len(categories)
		}
		bubbles = append(bubbles, categoryPageBubble(categories[start:end], page+1, total))
	}
	bubbles = append(bubbles, helpChoosingBubble())

	return &messaging_api.FlexMessage{
		AltText:  "請選擇療程分類",
		Contents: &messaging_api.FlexCarousel{Contents: bubbles},
	}
}

func categoryPageBubble(categories []taxonomy.Category, page, total int) messaging_api.FlexBubble {
	contents := make([]messaging_api.FlexComponentInterface, 0, len(categories)+1)
	for _, cat := range categories {
		label := strings.TrimSpace(strings.NewReplacer("✦", "", "◆", "").Replace(cat.Name))
		contents = append(contents, &messaging_api.FlexButton{
			Style:  "primary",
			Height: "sm",
			Color:  themeColor,
			Margin: "sm",
			Action: &messaging_api.MessageAction{Label: label, Text: "查看療程:" + cat.ID},
		})
	}

	return messaging_api.FlexBubble{
		Size: "mega",
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{
					Text:   fmt.Sprintf("🏥 療程選擇 (%d/%d)", page, total),
					Color:  "#ffffff",
					Size:   "xl",
					Weight: "bold",
				},
				&messaging_api.FlexText{Text: "請選擇您感興趣的療程項目", Color: "#ffffff", Size: "sm", Margin: "sm"},
			},
			BackgroundColor: themeColor,
			PaddingAll:      "20px",
		},
		Body: &messaging_api.FlexBox{
			Layout:     "vertical",
			Contents:   contents,
			PaddingAll: "20px",
		},
		Footer: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "💡 更多療程請往右滑動", Size: "xs", Color: mutedColor, Align: "center"},
			},
			PaddingAll: "15px",
		},
	}
}

func helpChoosingBubble() messaging_api.FlexBubble {
	return messaging_api.FlexBubble{
		Size: "mega",
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "💬 需要協助？", Color: "#ffffff", Size: "xl", Weight: "bold"},
			},
			BackgroundColor: themeColor,
			PaddingAll:      "20px",
		},
		Body: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "不確定選擇哪個療程？", Size: "md", Weight: "bold", Color: "#333333", Margin: "md"},
				&messaging_api.FlexText{Text: "您可以：", Size: "sm", Color: bodyColor, Margin: "md"},
				&messaging_api.FlexText{
					Text:   "✓ 直接告訴我您的需求\n✓ 輸入「醫師」查看專業團隊\n✓ 輸入「診所資訊」了解更多",
					Size:   "sm",
					Color:  bodyColor,
					Wrap:   true,
					Margin: "sm",
				},
				&messaging_api.FlexButton{
					Style:  "primary",
					Height: "sm",
					Color:  accentColor,
					Margin: "lg",
					Action: &messaging_api.MessageAction{Label: "我想諮詢", Text: "我想諮詢適合的療程"},
				},
				&messaging_api.FlexButton{
					Style:  "link",
					Height: "sm",
					Margin: "sm",
					Action: &messaging_api.MessageAction{Label: "查看醫師團隊", Text: "醫師"},
				},
			},
			PaddingAll: "20px",
		},
	}
}

// TreatmentListMessage renders the drilldown view for one category: up to ten
// treatments with booking buttons.
func TreatmentListMessage(category *taxonomy.Category, liffID string) *messaging_api.FlexMessage {
	treatments := category.Treatments
	if len(treatments) > maxTreatmentsPerList {
		treatments = treatments[:maxTreatmentsPerList]
	}

	boxes := make([]messaging_api.FlexComponentInterface, 0, len(treatments))
	for _, treatment := range treatments {
		contents := []messaging_api.FlexComponentInterface{
			&messaging_api.FlexText{Text: treatment.Name, Size: "md", Weight: "bold", Color: themeColor},
			&messaging_api.FlexText{Text: treatment.Description, Size: "sm", Color: bodyColor, Wrap: true, Margin: "xs"},
		}
		if len(treatment.Benefits) > 0 {
			contents = append(contents, benefitsBox(treatment.Benefits))
		}
		contents = append(contents, &messaging_api.FlexButton{
			Style:  "primary",
			Height: "sm",
			Color:  themeColor,
			Margin: "md",
			Action: &messaging_api.UriAction{
				Label: "預約此療程",
				Uri:   liffURI(liffID) + "?treatment=" + treatment.ID,
			},
		})

		boxes = append(boxes, &messaging_api.FlexBox{
			Layout:          "vertical",
			Contents:        contents,
			PaddingAll:      "15px",
			BackgroundColor: "#f8f8f8",
			CornerRadius:    "10px",
			Margin:          "md",
		})
	}

	bubble := messaging_api.FlexBubble{
		Size: "mega",
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: category.Name, Color: "#ffffff", Size: "xl", Weight: "bold"},
				&messaging_api.FlexText{Text: category.Description, Color: "#ffffff", Size: "sm", Wrap: true, Margin: "sm"},
			},
			BackgroundColor: themeColor,
			PaddingAll:      "20px",
		},
		Body: &messaging_api.FlexBox{
			Layout:     "vertical",
			Contents:   boxes,
			PaddingAll: "20px",
		},
		Footer: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "💡 價格與詳細資訊請來店諮詢", Size: "xs", Color: mutedColor, Align: "center"},
				&messaging_api.FlexButton{
					Style:  "link",
					Height: "sm",
					Margin: "md",
					Action: &messaging_api.MessageAction{Label: "返回療程分類", Text: "療程介紹"},
				},
			},
			PaddingAll: "15px",
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  category.Name + " - 療程列表",
		Contents: &bubble,
	}
}

// ClinicInfoMessage renders the clinic details card from configuration.
func ClinicInfoMessage(clinic config.ClinicConfig) *messaging_api.FlexMessage {
	infoRow := func(icon, label, value string) *messaging_api.FlexBox {
		return &messaging_api.FlexBox{
			Layout:  "horizontal",
			Spacing: "sm",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: icon, Size: "xl"},
				&messaging_api.FlexBox{
					Layout:  "vertical",
					Spacing: "xs",
					Contents: []messaging_api.FlexComponentInterface{
						&messaging_api.FlexText{Text: label, Color: "#aaaaaa", Size: "xs"},
						&messaging_api.FlexText{Text: value, Size: "sm", Color: bodyColor, Wrap: true, Weight: "bold"},
					},
				},
			},
		}
	}

	rows := []messaging_api.FlexComponentInterface{
		infoRow("📍", "診所地址", clinic.Address),
		infoRow("📞", "聯絡電話", clinic.Phone),
		infoRow("🕐", "營業時間", clinic.Hours),
	}
	if clinic.Transit != "" {
		rows = append(rows, infoRow("🚇", "交通方式", clinic.Transit))
	}

	footerContents := []messaging_api.FlexComponentInterface{}
	if clinic.MapURL != "" {
		footerContents = append(footerContents, &messaging_api.FlexButton{
			Style:  "primary",
			Height: "sm",
			Color:  themeColor,
			Action: &messaging_api.UriAction{Label: "📍 Google 地圖", Uri: clinic.MapURL},
		})
	}
	footerContents = append(footerContents, &messaging_api.FlexButton{
		Style:  "secondary",
		Height: "sm",
		Action: &messaging_api.UriAction{Label: "📞 撥打電話", Uri: "tel:" + phoneDigits(clinic.Phone)},
	})

	bubble := messaging_api.FlexBubble{
		Size: "mega",
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: clinic.Name, Color: "#ffffff", Size: "xl", Weight: "bold"},
				&messaging_api.FlexText{Text: clinic.Tagline, Color: "#ffffff99", Size: "sm", Margin: "xs"},
			},
			PaddingAll:      "20px",
			BackgroundColor: themeColor,
		},
		Body: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexBox{
					Layout:   "vertical",
					Margin:   "lg",
					Spacing:  "md",
					Contents: rows,
				},
				&messaging_api.FlexSeparator{Margin: "xl"},
				&messaging_api.FlexBox{
					Layout: "vertical",
					Margin: "lg",
					Contents: []messaging_api.FlexComponentInterface{
						&messaging_api.FlexText{Text: "💖 服務項目", Size: "md", Weight: "bold", Color: themeColor},
						&messaging_api.FlexText{
							Text:   "• 醫美療程\n• 皮膚科診療\n• 微整形\n• 雷射治療\n• 美容諮詢",
							Size:   "xs",
							Color:  bodyColor,
							Margin: "md",
							Wrap:   true,
						},
					},
				},
			},
		},
		Footer: &messaging_api.FlexBox{
			Layout:   "vertical",
			Spacing:  "sm",
			Contents: footerContents,
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  ClinicInfoText(clinic),
		Contents: &bubble,
	}
}

// ClinicInfoText renders the plain-text fallback version of the clinic card.
func ClinicInfoText(clinic config.ClinicConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 %s\n\n", clinic.Name)
	fmt.Fprintf(&b, "🏥 地址：%s\n", clinic.Address)
	fmt.Fprintf(&b, "📞 電話：%s\n\n", clinic.Phone)
	fmt.Fprintf(&b, "🕐 營業時間：\n%s\n", clinic.Hours)
	if clinic.Transit != "" {
		fmt.Fprintf(&b, "\n🚇 交通方式：\n%s\n", clinic.Transit)
	}
	b.WriteString("\n💖 歡迎預約諮詢！")
	return b.String()
}

// BookingMessage renders the booking prompt with the online form button.
func BookingMessage(prompt, bookingURL string) messaging_api.MessageInterface {
	if bookingURL == "" {
		return &messaging_api.TextMessage{Text: prompt}
	}

	bubble := messaging_api.FlexBubble{
		Header: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "💖 線上預約", Weight: "bold", Size: "xl", Color: "#FF69B4"},
			},
		},
		Body: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: prompt, Wrap: true, Color: bodyColor},
			},
		},
		Footer: &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexButton{
					Style:  "primary",
					Color:  "#FF69B4",
					Action: &messaging_api.UriAction{Label: "立即預約", Uri: bookingURL},
				},
			},
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  "線上預約",
		Contents: &bubble,
	}
}

// DoctorListText formats the staff roster reply.
func DoctorListText(header, footer string, doctors []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, d := range doctors {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	return strings.TrimRight(b.String(), "\n")
}

// phoneDigits strips formatting from a display phone number for tel: links.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
