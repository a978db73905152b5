package domain

type Category string

const (
	CategoryData   Category = "data"
	CategoryTalk   Category = "talk"
	CategoryMMS    Category = "mms"
	CategorySMS    Category = "sms"
	CategorySMSInt Category = "smsint"
)

// Categories lists usage categories in output order.
var Categories = []Category{CategoryData, CategoryTalk, CategoryMMS, CategorySMS, CategorySMSInt}

func (c Category) Unit() string {
	switch c {
	case CategoryData:
		return "bytes"
	case CategoryTalk:
		return "minutes"
	default:
		return "messages"
	}
}

func (c Category) IsMessage() bool {
	return c == CategoryMMS || c == CategorySMS || c == CategorySMSInt
}

type Field string

const (
	FieldUsed      Field = "used"
	FieldTotal     Field = "total"
	FieldRemaining Field = "remaining"
)

var Fields = []Field{FieldUsed, FieldTotal, FieldRemaining}

// RawUsage mirrors the portal usage dashboard. Each grouping holds one entry
// per line on the account.
type RawUsage struct {
	Data []UsageGroup `json:"data"`
	Talk []UsageGroup `json:"talk"`
	Text []UsageGroup `json:"text"`
}

type UsageGroup struct {
	Summaries []UsageSummary `json:"wirelessUsageSummaryInfoList"`
}

type UsageSummary struct {
	Used      *float64 `json:"used"`
	Total     *float64 `json:"total"`
	Remaining *float64 `json:"remaining"`
}

func (s UsageSummary) Value(field Field) *float64 {
	switch field {
	case FieldUsed:
		return s.Used
	case FieldTotal:
		return s.Total
	case FieldRemaining:
		return s.Remaining
	default:
		return nil
	}
}

func (u RawUsage) grouping(name string) []UsageGroup {
	switch name {
	case "data":
		return u.Data
	case "talk":
		return u.Talk
	case "text":
		return u.Text
	default:
		return nil
	}
}
