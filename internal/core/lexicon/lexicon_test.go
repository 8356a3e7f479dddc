package lexicon

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestDefault_LoadsEmbedded(t *testing.T) {
	lx := Default()
	if lx.Version() < 1 {
		t.Fatalf("version = %d", lx.Version())
	}
	if lx.Locale() != "pt-BR" {
		t.Fatalf("locale = %q", lx.Locale())
	}
	if Default() != lx {
		t.Fatalf("Default should return the same instance")
	}
}

func TestWeekdayAndMonth(t *testing.T) {
	lx := Default()
	days := []struct {
		in   string
		want time.Weekday
	}{
		{"domingo", time.Sunday},
		{"segunda", time.Monday},
		{"segunda-feira", time.Monday},
		{"terca-feira", time.Tuesday},
		{"quinta", time.Thursday},
		{"sabado", time.Saturday},
	}
	for _, tc := range days {
		got, ok := lx.Weekday(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("Weekday(%q) = %v,%v want %v", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := lx.Weekday("feriado"); ok {
		t.Fatalf("unknown weekday resolved")
	}

	if m, ok := lx.Month("marco"); !ok || m != time.March {
		t.Fatalf("Month(marco) = %v,%v", m, ok)
	}
	if m, ok := lx.Month("dezembro"); !ok || m != time.December {
		t.Fatalf("Month(dezembro) = %v,%v", m, ok)
	}
	if len(lx.MonthNames()) != 12 || len(lx.WeekdayNames()) != 7 {
		t.Fatalf("unexpected table sizes")
	}
}

func TestNumbers(t *testing.T) {
	lx := Default()
	if v, ok := lx.Unit("duas"); !ok || v != 2 {
		t.Fatalf("Unit(duas) = %d,%v", v, ok)
	}
	if v, ok := lx.Teen("quatorze"); !ok || v != 14 {
		t.Fatalf("Teen(quatorze) = %d,%v", v, ok)
	}
	if v, ok := lx.Tens("cinquenta"); !ok || v != 50 {
		t.Fatalf("Tens(cinquenta) = %d,%v", v, ok)
	}
	if v, ok := lx.MinuteIdiom("um quarto de hora"); !ok || v != 15 {
		t.Fatalf("MinuteIdiom = %d,%v", v, ok)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	lx := Default()
	ints := lx.Intentions()
	ints[0] = "mutated"
	if lx.Intentions()[0] == "mutated" {
		t.Fatalf("Intentions leaked internal slice")
	}
}

func TestLoad_Rejects(t *testing.T) {
	good := string(embedded)
	cases := []struct {
		name string
		doc  string
		frag string
	}{
		{name: "bad json", doc: "{", frag: "parse"},
		{name: "unknown field", doc: strings.Replace(good, `"version": 1`, `"version": 1, "feriados": []`, 1), frag: "parse"},
		{name: "no version", doc: strings.Replace(good, `"version": 1`, `"version": 0`, 1), frag: "version"},
		{name: "weekday out of range", doc: strings.Replace(good, `"sabado": 6`, `"sabado": 9`, 1), frag: "weekday"},
		{name: "missing weekday", doc: strings.Replace(good, `"sabado": 6`, `"sab": 5`, 1), frag: "7 days"},
		{name: "month out of range", doc: strings.Replace(good, `"dezembro": 12`, `"dezembro": 13`, 1), frag: "month"},
		{name: "accented key", doc: strings.Replace(good, `"marco": 3`, `"março": 3`, 1), frag: "folded"},
		{name: "unit out of range", doc: strings.Replace(good, `"nove": 9`, `"nove": 90`, 1), frag: "units"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("error %q does not mention %q", err, tc.frag)
			}
		})
	}
}

func TestAlternation_LongestFirst(t *testing.T) {
	re := regexp.MustCompile(`^` + Alternation([]string{"tenho", "tenho que", "p/"}) + `$`)
	for _, in := range []string{"tenho", "tenho que", "tenho   que", "p/"} {
		if !re.MatchString(in) {
			t.Fatalf("%q should match %s", in, re)
		}
	}
	lead := regexp.MustCompile(`^` + Alternation([]string{"tenho", "tenho que"}))
	if got := lead.FindString("tenho que ir"); got != "tenho que" {
		t.Fatalf("leftmost match = %q, want longest phrase", got)
	}
}
