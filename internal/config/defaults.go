package config

// Default values for optional configuration parameters.
const (
	DefaultLogLevel   = "info"
	DefaultLogJSON    = true
	DefaultServerPort = 8080
	DefaultDBPath     = "clinic.db"

	// Aftercare sweep runs once a day at 10:00 clinic time.
	DefaultAftercareSchedule = "0 10 * * *"

	// Database maintenance runs weekly, early Sunday morning.
	DefaultMaintenanceSchedule = "0 4 * * 0"
)

// DefaultClinic holds the clinic details shown in the info card.
var DefaultClinic = ClinicConfig{
	Name:    "FLOS 曜診所",
	Tagline: "專業醫美 · 用心服務",
	Address: "台北市信義區信義路五段7號",
	Phone:   "(02) 2345-6789",
	Hours:   "週一至週五 09:00 - 21:00\n週六 09:00 - 18:00\n週日公休",
	Transit: "捷運市政府站 3 號出口\n步行約 5 分鐘",
	MapURL:  "https://maps.google.com/?q=台北市信義區信義路五段7號",
}

// DefaultMessages holds the canned reply texts in the assistant's voice.
var DefaultMessages = MessagesConfig{
	Greeting: "嗨嗨～我是邊美醬💖 很高興為您服務！\n\n您可以：\n📅 預約 - 查看可預約時間\n👨‍⚕️ 醫師 - 查看醫師陣容\n❓ 幫助 - 查看使用說明",
	Help:     "💡 邊美醬使用說明\n\n📅 預約 - 預約療程\n👨‍⚕️ 醫師 - 查看醫師\n🏥 診所資訊 - 診所位置與營業時間\n💆 療程介紹 - 瀏覽療程分類\n\n有任何問題都可以問邊美醬喔～",
	BookingPrompt: "好的～請告訴邊美醬：\n1️⃣ 您的姓名\n2️⃣ 想看哪位醫師\n3️⃣ 希望的日期和時間\n\n例如：「王小明 陳醫師 明天下午2點」",
	Unknown:  "嗯嗯...邊美醬不太懂您的意思耶😅\n輸入「幫助」看看邊美醬能幫您什麼吧～",
	GeneralError: "哎呀～邊美醬遇到一點小問題😅\n請稍後再試試看，或聯繫診所人員協助喔！",
	ConsultFallback: "感謝您的諮詢！💖\n\n為了給您最專業的建議，建議您：\n\n1️⃣ 點選下方選單「立即預約」預約諮詢\n2️⃣ 或輸入「醫師」查看我們的專業醫師團隊\n3️⃣ 輸入「診所資訊」了解更多\n\n我們的專業團隊會根據您的需求，提供最適合的療程建議！✨",
	CategoryNotFound: "找不到該療程分類，請重新選擇",
	DoctorListHeader: "✨ 我們的醫師陣容 ✨",
	DoctorListFooter: "都是超專業的醫師喔💕",
}
