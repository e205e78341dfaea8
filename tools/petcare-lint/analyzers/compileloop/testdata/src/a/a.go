package a

import (
	"regexp"
	re "regexp"
	"strings"
)

func badMustCompile(days []string) {
	for _, day := range days {
		pat := regexp.MustCompile(`\d{1,2}:\d{2}`) // want "regexp.MustCompile called inside loop"
		_ = pat.FindAllString(day, -1)
	}
}

func badCompile(days []string) {
	for i := 0; i < len(days); i++ {
		pat, _ := regexp.Compile(`\d+`) // want "regexp.Compile called inside loop"
		_ = pat.MatchString(days[i])
	}
}

func badRenamedImport(days []string) {
	for _, day := range days {
		_ = re.MustCompile(`休息`).MatchString(day) // want "regexp.MustCompile called inside loop"
	}
}

func badReplacer(days []string) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		r := strings.NewReplacer("～", "-", "–", "-") // want "strings.NewReplacer called inside loop"
		out = append(out, r.Replace(day))
	}
	return out
}

func badNested(weeks [][]string) {
	for _, week := range weeks {
		for _, day := range week {
			_ = regexp.MustCompile(`\d+`).MatchString(day) // want "regexp.MustCompile called inside loop"
		}
	}
}

var dashes = strings.NewReplacer("～", "-", "–", "-")

func goodReplacer(days []string) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, dashes.Replace(day))
	}
	return out
}

var timeOfDay = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

func goodGlobal(days []string) int {
	n := 0
	for _, day := range days {
		if timeOfDay.MatchString(day) {
			n++
		}
	}
	return n
}

func goodOtherCalls(days []string) string {
	var b strings.Builder
	for _, day := range days {
		b.WriteString(strings.TrimSpace(day))
	}
	return b.String()
}
