package bot

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"ovozpay/internal/models"
)

// ParsedTransaction is the result of free-text recognition: the bot turns
// "потратил на такси 25000" into an expense of 25000 with a category hint.
type ParsedTransaction struct {
	Amount       float64
	Type         models.TransactionType
	CategoryHint string
	Description  string
}

var (
	ErrNoAmount = errors.New("no amount found in text")

	reNumber = regexp.MustCompile(`(\d+(?:[\s ]\d{3})*(?:[.,]\d{1,2})?)`)
	// thousand multipliers written as words
	reThousand = regexp.MustCompile(`(?i)\b(тысяч[аи]?|тыс\.?|ming|thousand|k)\b`)
)

// Keyword sets per language. Expense checked first: texts like "потратил
// зарплату" are an expense even though they mention an income word.
var expenseKeywords = map[string][]string{
	"ru": {"потратил", "купил", "заплатил", "расход", "оплатил", "трата", "потратила", "купила"},
	"uz": {"sarfladim", "sotib oldim", "to'ladim", "toʻladim", "xarajat", "berdim"},
	"en": {"spent", "bought", "paid", "expense", "purchase"},
}

var incomeKeywords = map[string][]string{
	"ru": {"получил", "заработал", "доход", "зарплата", "премия", "прибыль", "получила", "заработала"},
	"uz": {"oldim", "topdim", "daromad", "maosh", "oylik"},
	"en": {"received", "earned", "income", "salary", "bonus", "got paid"},
}

// Category hints per language: keyword in text -> default category name.
var categoryHints = map[string]map[string]string{
	"ru": {
		"такси": "Транспорт", "автобус": "Транспорт", "метро": "Транспорт", "бензин": "Транспорт",
		"продукты": "Продукты", "еда": "Продукты", "обед": "Кафе", "кафе": "Кафе", "ресторан": "Кафе",
		"аптека": "Здоровье", "лекарства": "Здоровье", "врач": "Здоровье",
		"одежда": "Одежда", "квартира": "Жильё", "аренда": "Жильё", "коммуналка": "Жильё",
		"зарплата": "Зарплата", "премия": "Зарплата",
	},
	"uz": {
		"taksi": "Транспорт", "avtobus": "Транспорт", "benzin": "Транспорт",
		"oziq-ovqat": "Продукты", "ovqat": "Продукты", "tushlik": "Кафе",
		"dori": "Здоровье", "kiyim": "Одежда", "ijara": "Жильё",
		"maosh": "Зарплата", "oylik": "Зарплата",
	},
	"en": {
		"taxi": "Транспорт", "bus": "Транспорт", "fuel": "Транспорт",
		"groceries": "Продукты", "food": "Продукты", "lunch": "Кафе", "restaurant": "Кафе",
		"pharmacy": "Здоровье", "clothes": "Одежда", "rent": "Жильё",
		"salary": "Зарплата",
	},
}

// ParseTransactionText recognizes an income or expense in free text. The
// language code narrows the keyword set; unknown codes fall back to
// checking all languages. Unmarked texts with an amount default to expense.
func ParseTransactionText(text, language string) (*ParsedTransaction, error) {
	clean := strings.ToLower(strings.TrimSpace(text))
	if clean == "" {
		return nil, ErrNoAmount
	}

	m := reNumber.FindStringSubmatch(clean)
	if m == nil {
		return nil, ErrNoAmount
	}
	amountStr := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(m[1])
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		return nil, ErrNoAmount
	}
	if reThousand.MatchString(clean) {
		amount *= 1000
	}

	txType := models.TransactionTypeExpense
	if matchKeywords(clean, language, incomeKeywords) && !matchKeywords(clean, language, expenseKeywords) {
		txType = models.TransactionTypeIncome
	}

	return &ParsedTransaction{
		Amount:       amount,
		Type:         txType,
		CategoryHint: findCategoryHint(clean, language),
		Description:  strings.TrimSpace(text),
	}, nil
}

func matchKeywords(text, language string, sets map[string][]string) bool {
	if words, ok := sets[language]; ok {
		return containsAny(text, words)
	}
	for _, words := range sets {
		if containsAny(text, words) {
			return true
		}
	}
	return false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func findCategoryHint(text, language string) string {
	hints, ok := categoryHints[language]
	if !ok {
		hints = categoryHints["ru"]
	}
	for keyword, category := range hints {
		if strings.Contains(text, keyword) {
			return category
		}
	}
	return ""
}
