// Package aftercare sends post-treatment follow-up messages. A daily sweep
// matches each scheduled entry's day offsets against the elapsed days since
// treatment and pushes a care card when one matches.
package aftercare

import "strings"

// Message is the content of one care card.
type Message struct {
	Greeting        string
	Tips            []string
	Recommendations []string
}

// Treatment types with customized follow-up content. Anything else falls
// back to the common messages.
const (
	typeCommon      = "common"
	typeLaser       = "laser"
	typeDermapen    = "dermapen"
	typeHairRemoval = "hair_removal"
	typeBotox       = "botox"
)

var commonMessages = map[int]Message{
	1: {
		Greeting: "感謝您選擇 FLOS 曜診所！療程後的第一天非常重要，請注意以下事項：",
		Tips: []string{
			"避免碰觸治療部位",
			"保持治療部位清潔乾燥",
			"避免使用刺激性保養品",
			"多喝水，充足休息",
			"如有紅腫或不適屬正常現象",
		},
	},
	3: {
		Greeting: "療程後第三天，恢復狀況如何呢？",
		Tips: []string{
			"可以開始使用溫和的保養品",
			"持續做好防曬（SPF50+）",
			"避免劇烈運動和高溫環境",
			"保持充足睡眠",
		},
		Recommendations: []string{
			"如需加強保濕，可考慮搭配保濕療程",
			"定期回診追蹤效果",
		},
	},
	7: {
		Greeting: "一週過去了，您的肌膚狀況還好嗎？",
		Tips: []string{
			"可以恢復正常保養程序",
			"持續做好防曬",
			"保持良好作息",
			"多攝取蔬果和水分",
		},
		Recommendations: []string{
			"療程效果會在 2-4 週逐漸顯現",
			"建議定期回診評估",
			"可諮詢後續保養療程",
		},
	},
	14: {
		Greeting: "兩週了！效果應該開始顯現了～",
		Tips: []string{
			"持續做好日常保養",
			"防曬不可少",
			"保持健康生活習慣",
		},
		Recommendations: []string{
			"如需加強效果，可預約下次療程",
			"定期保養能維持最佳狀態",
			"歡迎預約回診評估",
		},
	},
}

var treatmentSpecificMessages = map[string]map[int]Message{
	typeLaser: {
		1: {
			Tips: []string{
				"避免碰觸治療部位",
				"可能會有輕微結痂，請勿摳抓",
				"加強保濕和防曬（SPF50+）",
				"避免使用美白或酸類產品",
				"一週內避免泡溫泉、三溫暖",
			},
		},
		7: {
			Recommendations: []string{
				"結痂會自然脫落，請勿強行剝除",
				"建議 4-6 週後進行下次療程",
				"可搭配保濕或修復療程加強效果",
			},
		},
	},
	typeDermapen: {
		1: {
			Tips: []string{
				"前 24 小時避免碰水",
				"可能有輕微紅腫，屬正常現象",
				"使用診所提供的修復產品",
				"避免化妝和刺激性保養品",
				"一週內避免劇烈運動",
			},
		},
		3: {
			Recommendations: []string{
				"可開始使用溫和保養品",
				"建議搭配外泌體加速修復",
			},
		},
	},
	typeHairRemoval: {
		1: {
			Tips: []string{
				"治療部位可能微紅，屬正常現象",
				"避免使用刺激性產品",
				"加強保濕",
				"避免日曬和高溫環境",
				"一週內避免泡澡、游泳",
			},
		},
		14: {
			Recommendations: []string{
				"建議 4-6 週後進行下次療程",
				"完整療程需 6-8 次",
			},
		},
	},
	typeBotox: {
		1: {
			Tips: []string{
				"4 小時內避免平躺",
				"避免按摩治療部位",
				"避免劇烈運動",
				"不要做臉或使用高溫",
				"效果會在 3-7 天逐漸顯現",
			},
		},
		7: {
			Recommendations: []string{
				"效果可維持 4-6 個月",
				"建議定期回診評估",
			},
		},
	},
}

// classifyTreatment maps a free-text treatment name to a message table.
func classifyTreatment(name string) string {
	switch {
	case strings.Contains(name, "雷射") || strings.Contains(name, "皮秒"):
		return typeLaser
	case strings.Contains(name, "微針") || strings.Contains(strings.ToUpper(name), "DERMAPEN"):
		return typeDermapen
	case strings.Contains(name, "除毛"):
		return typeHairRemoval
	case strings.Contains(name, "肉毒"):
		return typeBotox
	default:
		return typeCommon
	}
}

// MessageForDay builds the care message for a treatment on a given day.
// Treatment-specific content overrides the common content field by field;
// days without a common entry borrow the day-1 baseline.
func MessageForDay(treatmentName string, day int) Message {
	base, ok := commonMessages[day]
	if !ok {
		base = commonMessages[1]
	}

	specific := treatmentSpecificMessages[classifyTreatment(treatmentName)][day]

	msg := base
	if specific.Greeting != "" {
		msg.Greeting = specific.Greeting
	}
	if len(specific.Tips) > 0 {
		msg.Tips = specific.Tips
	}
	if len(specific.Recommendations) > 0 {
		msg.Recommendations = specific.Recommendations
	}
	return msg
}
