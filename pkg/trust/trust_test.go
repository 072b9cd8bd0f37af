package trust

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func createdDaysAgo(days int) *time.Time {
	t := testNow.AddDate(0, 0, -days)
	return &t
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func cleanBans() *BanRecord {
	return &BanRecord{EconomyBan: "none", DaysSinceLast: intPtr(0)}
}

func TestScoreVeteranCleanProfile(t *testing.T) {
	res := Score(Input{
		CreatedAt:   createdDaysAgo(12 * 365),
		Level:       intPtr(50),
		GameCount:   intPtr(200),
		FriendCount: intPtr(200),
		Bans:        cleanBans(),
		Now:         testNow,
	})

	if res.Score == nil {
		t.Fatal("Score() = nil, want a score")
	}
	if *res.Score != 100 {
		t.Errorf("Score() = %d, want 100 (clamped)", *res.Score)
	}
	if res.Verdict != VerdictCertified {
		t.Errorf("Verdict = %q, want %q", res.Verdict, VerdictCertified)
	}

	want := Breakdown{
		Age:           62,
		Level:         9,
		Friends:       9,
		GamesOwned:    10,
		CleanBanBonus: 14,
		VeteranBonus:  5,
	}
	if diff := cmp.Diff(want, res.Points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreInsufficientEvidence(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{
			name: "nothing known at all",
			in:   Input{Now: testNow},
		},
		{
			name: "clean ban record but no other evidence",
			in:   Input{Bans: cleanBans(), Now: testNow},
		},
		{
			name: "title requested but hours unknown",
			in:   Input{GameName: "Counter-Strike 2", Now: testNow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.in)
			if res.Score != nil {
				t.Errorf("Score() = %d, want nil", *res.Score)
			}
			if res.Verdict != VerdictUnknown {
				t.Errorf("Verdict = %q, want %q", res.Verdict, VerdictUnknown)
			}
			if want := "Profile is locked down; not enough public signals to score. Proceed with caution."; res.Summary != want {
				t.Errorf("Summary = %q, want %q", res.Summary, want)
			}
			if res.Points.VeteranBonus != 0 {
				t.Errorf("VeteranBonus = %d, want 0", res.Points.VeteranBonus)
			}
		})
	}
}

func TestScoreBansAloneStillScore(t *testing.T) {
	// An actual ban must produce a number even with zero other evidence.
	res := Score(Input{
		Bans: &BanRecord{VACBans: 1, EconomyBan: "none", DaysSinceLast: intPtr(100)},
		Now:  testNow,
	})
	if res.Score == nil {
		t.Fatal("Score() = nil, want a score")
	}
	if *res.Score != 0 {
		t.Errorf("Score() = %d, want 0", *res.Score)
	}
	if res.Verdict != VerdictHighRisk {
		t.Errorf("Verdict = %q, want %q", res.Verdict, VerdictHighRisk)
	}
}

func TestScoreRecentBanScoresLowerThanClean(t *testing.T) {
	base := Input{
		CreatedAt:   createdDaysAgo(6 * 365),
		Level:       intPtr(25),
		GameCount:   intPtr(60),
		FriendCount: intPtr(30),
		Now:         testNow,
	}

	clean := base
	clean.Bans = cleanBans()
	banned := base
	banned.Bans = &BanRecord{VACBans: 1, EconomyBan: "none", DaysSinceLast: intPtr(90)}

	cleanRes := Score(clean)
	bannedRes := Score(banned)

	if cleanRes.Score == nil || bannedRes.Score == nil {
		t.Fatal("both inputs should produce scores")
	}
	if *bannedRes.Score >= *cleanRes.Score {
		t.Errorf("banned score %d should be strictly below clean score %d",
			*bannedRes.Score, *cleanRes.Score)
	}
	if bannedRes.Points.BanPenalty != -35 {
		t.Errorf("BanPenalty = %d, want -35 for a ban under a year old", bannedRes.Points.BanPenalty)
	}
	if bannedRes.Points.CleanBanBonus != 0 {
		t.Errorf("CleanBanBonus = %d, want 0 when banned", bannedRes.Points.CleanBanBonus)
	}
}

func TestVACPenalty(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		daysSince *int
		want      int
	}{
		{"no bans", 0, nil, 0},
		{"one ban, recency unknown", 1, nil, -18},
		{"one ban under a year", 1, intPtr(200), -35},
		{"one ban 1-2 years", 1, intPtr(400), -30},
		{"one ban 2-4 years", 1, intPtr(1000), -24},
		{"one ban 4-7 years", 1, intPtr(2000), -16},
		{"one ban 7-10 years", 1, intPtr(3000), -10},
		{"one ban over 10 years", 1, intPtr(4000), -5},
		{"repeat offenses deepen", 3, intPtr(200), -47},
		{"repeat surcharge caps at 18", 10, intPtr(200), -53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vacPenalty(tt.count, tt.daysSince); got != tt.want {
				t.Errorf("vacPenalty(%d, %v) = %d, want %d", tt.count, tt.daysSince, got, tt.want)
			}
		})
	}
}

func TestBanPenaltyComposition(t *testing.T) {
	tests := []struct {
		name string
		bans *BanRecord
		want int
	}{
		{"nil record", nil, 0},
		{"clean", cleanBans(), 0},
		{"community ban only", &BanRecord{CommunityBanned: true, EconomyBan: "none"}, -15},
		{"economy ban only", &BanRecord{EconomyBan: "banned"}, -15},
		{"empty economy string is clean", &BanRecord{EconomyBan: ""}, 0},
		{
			"everything at once clamps to -70",
			&BanRecord{
				VACBans:         5,
				GameBans:        5,
				CommunityBanned: true,
				EconomyBan:      "banned",
				DaysSinceLast:   intPtr(30),
			},
			-70,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := banPenalty(tt.bans); got != tt.want {
				t.Errorf("banPenalty() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAgePointsMonotonic(t *testing.T) {
	days := []int{0, 30, 89, 90, 179, 180, 729, 730, 1824, 1825, 3649, 3650, 9999}
	prev := -1
	for _, d := range days {
		got := agePoints(&d)
		if got < prev {
			t.Errorf("agePoints(%d) = %d, decreased from %d", d, got, prev)
		}
		prev = got
	}
}

func TestAgeText(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{10, "10 days old"},
		{1, "1 day old"},
		{45, "1 month old"},
		{75, "2 months old"},
		{365, "1 year old"},
		{4400, "12 years old"},
	}
	for _, tt := range tests {
		_, _, text := ageSignals(createdDaysAgo(tt.days), testNow)
		if text != tt.want {
			t.Errorf("ageSignals(%d days) text = %q, want %q", tt.days, text, tt.want)
		}
	}
}

func TestGameHoursAdjustment(t *testing.T) {
	tests := []struct {
		name  string
		hours *float64
		want  int
	}{
		{"unknown", nil, 0},
		{"under five", floatPtr(3), -10},
		{"under ten", floatPtr(7.5), -6},
		{"under twenty", floatPtr(15), -3},
		{"plenty", floatPtr(250), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gameHoursAdjustment(tt.hours); got != tt.want {
				t.Errorf("gameHoursAdjustment(%v) = %d, want %d", tt.hours, got, tt.want)
			}
		})
	}
}

func TestScoreTitleNotFoundMeansNoAdjustment(t *testing.T) {
	in := Input{
		CreatedAt: createdDaysAgo(3 * 365),
		Bans:      cleanBans(),
		GameName:  "Counter-Strike 2",
		GameHours: nil, // title not in library
		Now:       testNow,
	}
	res := Score(in)
	if res.GameAdj != 0 {
		t.Errorf("GameAdj = %d, want 0 when hours are unknown", res.GameAdj)
	}
	if res.Points.GameHoursAdj != 0 {
		t.Errorf("Points.GameHoursAdj = %d, want 0", res.Points.GameHoursAdj)
	}
}

func TestVerdictBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, VerdictCertified},
		{95, VerdictCertified},
		{94, VerdictLikely},
		{85, VerdictLikely},
		{84, VerdictProbably},
		{70, VerdictProbably},
		{69, VerdictMixed},
		{50, VerdictMixed},
		{49, VerdictSuspect},
		{30, VerdictSuspect},
		{29, VerdictHighRisk},
		{0, VerdictHighRisk},
	}
	for _, tt := range tests {
		if got := verdictFromScore(tt.score); got != tt.want {
			t.Errorf("verdictFromScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSummaryTone(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "positive tone picks three reasons",
			in: Input{
				CreatedAt:   createdDaysAgo(11 * 365),
				Level:       intPtr(50),
				GameCount:   intPtr(150),
				FriendCount: intPtr(60),
				Bans:        cleanBans(),
				Now:         testNow,
			},
			want: "Strong signals: older account, clean ban history, real game library.",
		},
		{
			name: "mixed tone picks two reasons",
			in: Input{
				CreatedAt: createdDaysAgo(3 * 365),
				Bans:      cleanBans(),
				Now:       testNow,
			},
			want: "Mixed signals: some account history, clean ban history.",
		},
		{
			name: "negative tone picks two reasons",
			in: Input{
				CreatedAt: createdDaysAgo(30),
				Bans:      &BanRecord{VACBans: 1, EconomyBan: "none", DaysSinceLast: intPtr(10)},
				Now:       testNow,
			},
			want: "Several risk signals: young account, ban history present.",
		},
		{
			name: "title hours framing",
			in: Input{
				CreatedAt: createdDaysAgo(11 * 365),
				Bans:      cleanBans(),
				GameName:  "Dota 2",
				GameHours: floatPtr(500),
				Now:       testNow,
			},
			want: "Strong signals: older account, clean ban history, strong Dota 2 playtime.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.in)
			if res.Summary != tt.want {
				t.Errorf("Summary = %q, want %q", res.Summary, tt.want)
			}
		})
	}
}

func TestScoreClampedToZero(t *testing.T) {
	res := Score(Input{
		CreatedAt: createdDaysAgo(30),
		Bans: &BanRecord{
			VACBans:         5,
			GameBans:        5,
			CommunityBanned: true,
			EconomyBan:      "banned",
			DaysSinceLast:   intPtr(10),
		},
		GameName:  "Rust",
		GameHours: floatPtr(1),
		Now:       testNow,
	})
	if res.Score == nil {
		t.Fatal("Score() = nil, want a score")
	}
	if *res.Score != 0 {
		t.Errorf("Score() = %d, want 0 (floor)", *res.Score)
	}
}

func TestBanMeta(t *testing.T) {
	bans := &BanRecord{VACBans: 2, EconomyBan: "none", DaysSinceLast: intPtr(365)}
	res := Score(Input{CreatedAt: createdDaysAgo(365), Bans: bans, Now: testNow})

	if res.Ban == nil {
		t.Fatal("Ban = nil, want metadata")
	}
	if !res.Ban.HasAny {
		t.Error("Ban.HasAny = false, want true")
	}
	if res.Ban.VAC != 2 {
		t.Errorf("Ban.VAC = %d, want 2", res.Ban.VAC)
	}
	if res.Ban.LastBanApprox == nil {
		t.Fatal("Ban.LastBanApprox = nil, want approximate date")
	}
	wantApprox := testNow.AddDate(0, 0, -365)
	if !res.Ban.LastBanApprox.Equal(wantApprox) {
		t.Errorf("Ban.LastBanApprox = %v, want %v", res.Ban.LastBanApprox, wantApprox)
	}
	if res.Ban.LastBanYear != wantApprox.Year() {
		t.Errorf("Ban.LastBanYear = %d, want %d", res.Ban.LastBanYear, wantApprox.Year())
	}
	if res.Ban.Impact != "Severe impact" {
		t.Errorf("Ban.Impact = %q, want %q", res.Ban.Impact, "Severe impact")
	}
}

func TestScoreDeterministic(t *testing.T) {
	in := Input{
		CreatedAt:   createdDaysAgo(2000),
		Level:       intPtr(12),
		GameCount:   intPtr(40),
		FriendCount: intPtr(8),
		Bans:        cleanBans(),
		Now:         testNow,
	}
	first := Score(in)
	second := Score(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Score() not deterministic (-first +second):\n%s", diff)
	}
}
