// Package trust reduces public Steam profile signals to a deterministic
// 0-100 trust score with a verdict and a one-sentence explanation.
//
// The model is a sum of independent bounded contributors: account age is the
// dominant anchor (0-62 points), ban history is the dominant penalty (down to
// -70), and level, friends, library size, and optional per-game hours nudge
// the total. Scoring is pure: the same Input always produces the same Result.
package trust

import (
	"fmt"
	"strings"
	"time"
)

// Verdict strings, most to least trustworthy.
const (
	VerdictCertified = "CERTIFIED LEGIT"
	VerdictLikely    = "LIKELY LEGIT"
	VerdictProbably  = "PROBABLY LEGIT"
	VerdictMixed     = "MIXED SIGNALS"
	VerdictSuspect   = "SUSPECT"
	VerdictHighRisk  = "HIGH RISK"
	VerdictUnknown   = "UNKNOWN"
)

// BanRecord describes a profile's restriction history as reported by the
// provider. Nil means the record could not be fetched at all, which is
// distinct from a record showing zero bans.
type BanRecord struct {
	VACBans         int    `json:"vacBans"`
	GameBans        int    `json:"gameBans"`
	CommunityBanned bool   `json:"communityBanned"`
	EconomyBan      string `json:"economyBan"`       // "none" when clean
	DaysSinceLast   *int   `json:"daysSinceLastBan"` // nil when unknown
}

// HasAny reports whether the record shows any restriction of any kind.
func (b *BanRecord) HasAny() bool {
	if b == nil {
		return false
	}
	return b.VACBans > 0 || b.GameBans > 0 || b.CommunityBanned ||
		(b.EconomyBan != "" && b.EconomyBan != "none")
}

// Input holds the independently-optional signals the model scores.
// Every field may be absent; the model degrades to an UNKNOWN verdict rather
// than erroring when nothing is known.
type Input struct {
	CreatedAt   *time.Time
	Level       *int
	GameCount   *int
	FriendCount *int
	Bans        *BanRecord
	GameName    string    // display name of the requested title, if any
	GameHours   *float64  // hours in the requested title; nil when unknown
	Now         time.Time // zero value means time.Now()
}

// Breakdown records each contributor's points for the response payload.
type Breakdown struct {
	Age           int `json:"age"`
	Level         int `json:"level"`
	Friends       int `json:"friends"`
	GamesOwned    int `json:"gamesOwned"`
	BanPenalty    int `json:"banPenalty"`
	CleanBanBonus int `json:"cleanBansBonus"`
	GameHoursAdj  int `json:"gameHoursAdj"`
	VeteranBonus  int `json:"veteranBonus"`
}

// BanMeta is the display-oriented summary of a ban record.
type BanMeta struct {
	HasAny        bool       `json:"hasAny"`
	VAC           int        `json:"vac"`
	Game          int        `json:"game"`
	Community     bool       `json:"community"`
	Economy       string     `json:"economy"`
	DaysSinceLast *int       `json:"daysSinceLastBan"`
	LastBanApprox *time.Time `json:"lastBanApproxDate,omitempty"`
	LastBanYear   int        `json:"lastBanApproxYear,omitempty"`
	Penalty       int        `json:"penalty"`
	Impact        string     `json:"impact"`
}

// Result is the scored outcome. Score is nil only when evidence was
// insufficient and nothing was on the restriction record; otherwise it is
// in [0,100].
type Result struct {
	Score    *int      `json:"trustLevel"`
	Verdict  string    `json:"verdict"`
	Summary  string    `json:"scoreSummary"`
	AgeDays  *int      `json:"ageDays"`
	AgeYears *int      `json:"ageYears"`
	AgeText  string    `json:"ageText,omitempty"`
	Points   Breakdown `json:"points"`
	Ban      *BanMeta  `json:"ban,omitempty"`
	GameAdj  int       `json:"-"`
}

// Score computes the trust result for the given signals.
func Score(in Input) Result {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	ageDays, ageYears, ageText := ageSignals(in.CreatedAt, now)
	agePts := agePoints(ageDays)
	lvlPts := levelPoints(in.Level)
	frPts := friendsPoints(in.FriendCount)
	libPts := gamesOwnedPoints(in.GameCount)
	banPen := banPenalty(in.Bans)

	gameAdj := 0
	if in.GameName != "" {
		gameAdj = gameHoursAdjustment(in.GameHours)
	}

	cleanBonus := 0
	if in.Bans != nil && !in.Bans.HasAny() {
		cleanBonus = 14
	}

	evidence := 0
	if ageDays != nil {
		evidence++
	}
	if in.Level != nil {
		evidence++
	}
	if in.GameCount != nil {
		evidence++
	}
	if in.FriendCount != nil {
		evidence++
	}
	if in.GameName != "" && in.GameHours != nil {
		evidence++
	}

	veteranBonus := 0
	if ageDays != nil && *ageDays >= 3650 && banPen == 0 &&
		(in.GameCount != nil || in.FriendCount != nil || in.Level != nil) {
		veteranBonus = 5
	}

	points := Breakdown{
		Age:           agePts,
		Level:         lvlPts,
		Friends:       frPts,
		GamesOwned:    libPts,
		BanPenalty:    banPen,
		CleanBanBonus: cleanBonus,
		GameHoursAdj:  gameAdj,
		VeteranBonus:  veteranBonus,
	}

	// No scorable signals and nothing on the restriction record: refuse to
	// invent a number. An actual ban is still scored even in a vacuum, since
	// the penalty alone is meaningful.
	if evidence == 0 && !in.Bans.HasAny() {
		points.VeteranBonus = 0
		return Result{
			Score:    nil,
			Verdict:  VerdictUnknown,
			Summary:  summaryFor(nil, VerdictUnknown, in, ageYears),
			AgeDays:  ageDays,
			AgeYears: ageYears,
			AgeText:  ageText,
			Points:   points,
			Ban:      banMeta(in.Bans, banPen, now),
			GameAdj:  gameAdj,
		}
	}

	score := clamp(agePts+lvlPts+frPts+libPts+banPen+gameAdj+cleanBonus+veteranBonus, 0, 100)
	verdict := verdictFromScore(score)

	return Result{
		Score:    &score,
		Verdict:  verdict,
		Summary:  summaryFor(&score, verdict, in, ageYears),
		AgeDays:  ageDays,
		AgeYears: ageYears,
		AgeText:  ageText,
		Points:   points,
		Ban:      banMeta(in.Bans, banPen, now),
		GameAdj:  gameAdj,
	}
}

func ageSignals(createdAt *time.Time, now time.Time) (days, years *int, text string) {
	if createdAt == nil {
		return nil, nil, ""
	}
	d := int(now.Sub(*createdAt).Hours() / 24)
	y := d / 365
	switch {
	case y >= 1:
		text = fmt.Sprintf("%d year%s old", y, plural(y))
	case d/30 >= 1:
		m := d / 30
		text = fmt.Sprintf("%d month%s old", m, plural(m))
	default:
		text = fmt.Sprintf("%d day%s old", d, plural(d))
	}
	return &d, &y, text
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func agePoints(ageDays *int) int {
	if ageDays == nil {
		return 0
	}
	switch d := *ageDays; {
	case d >= 3650:
		return 62
	case d >= 1825:
		return 50
	case d >= 730:
		return 38
	case d >= 180:
		return 22
	case d >= 90:
		return 12
	default:
		return 4
	}
}

func levelPoints(level *int) int {
	if level == nil {
		return 0
	}
	switch l := *level; {
	case l >= 50:
		return 9
	case l >= 25:
		return 7
	case l >= 10:
		return 4
	case l >= 1:
		return 2
	default:
		return 0
	}
}

func friendsPoints(friends *int) int {
	if friends == nil {
		return 0
	}
	switch f := *friends; {
	case f >= 200:
		return 9
	case f >= 50:
		return 6
	case f >= 10:
		return 3
	case f >= 1:
		return 1
	default:
		return 0
	}
}

func gamesOwnedPoints(games *int) int {
	if games == nil {
		return 0
	}
	switch g := *games; {
	case g >= 200:
		return 10
	case g >= 50:
		return 7
	case g >= 10:
		return 4
	case g >= 4:
		return 2
	default:
		return 0
	}
}

// vacPenalty decays with time since the most recent ban and deepens with
// repeat offenses. Floor: -60.
func vacPenalty(count int, daysSince *int) int {
	if count <= 0 {
		return 0
	}
	base := -18 // recency unknown: assume mid-severity
	if daysSince != nil {
		switch d := *daysSince; {
		case d < 365:
			base = -35
		case d < 730:
			base = -30
		case d < 1460:
			base = -24
		case d < 2555:
			base = -16
		case d < 3650:
			base = -10
		default:
			base = -5
		}
	}
	extra := min((count-1)*6, 18)
	return clamp(base-extra, -60, 0)
}

// gameBanPenalty mirrors vacPenalty with a gentler curve. Floor: -45.
func gameBanPenalty(count int, daysSince *int) int {
	if count <= 0 {
		return 0
	}
	base := -14
	if daysSince != nil {
		switch d := *daysSince; {
		case d < 365:
			base = -24
		case d < 730:
			base = -20
		case d < 1460:
			base = -16
		case d < 2555:
			base = -12
		case d < 3650:
			base = -8
		default:
			base = -4
		}
	}
	extra := min((count-1)*4, 12)
	return clamp(base-extra, -45, 0)
}

func banPenalty(b *BanRecord) int {
	if b == nil {
		return 0
	}
	pen := vacPenalty(b.VACBans, b.DaysSinceLast) + gameBanPenalty(b.GameBans, b.DaysSinceLast)
	if b.CommunityBanned {
		pen -= 15
	}
	if b.EconomyBan != "" && b.EconomyBan != "none" {
		pen -= 15
	}
	return clamp(pen, -70, 0)
}

func gameHoursAdjustment(hours *float64) int {
	if hours == nil {
		return 0
	}
	switch h := *hours; {
	case h < 5:
		return -10
	case h < 10:
		return -6
	case h < 20:
		return -3
	default:
		return 0
	}
}

func verdictFromScore(score int) string {
	switch {
	case score >= 95:
		return VerdictCertified
	case score >= 85:
		return VerdictLikely
	case score >= 70:
		return VerdictProbably
	case score >= 50:
		return VerdictMixed
	case score >= 30:
		return VerdictSuspect
	default:
		return VerdictHighRisk
	}
}

func banImpactLabel(penalty int) string {
	switch {
	case penalty >= 0:
		return "None"
	case penalty <= -30:
		return "Severe impact"
	case penalty <= -20:
		return "High impact"
	case penalty <= -10:
		return "Moderate impact"
	default:
		return "Low impact"
	}
}

func banMeta(b *BanRecord, penalty int, now time.Time) *BanMeta {
	if b == nil {
		return nil
	}
	meta := &BanMeta{
		HasAny:        b.HasAny(),
		VAC:           b.VACBans,
		Game:          b.GameBans,
		Community:     b.CommunityBanned,
		Economy:       b.EconomyBan,
		DaysSinceLast: b.DaysSinceLast,
		Penalty:       penalty,
		Impact:        banImpactLabel(penalty),
	}
	if meta.Economy == "" {
		meta.Economy = "none"
	}
	if b.DaysSinceLast != nil {
		approx := now.AddDate(0, 0, -*b.DaysSinceLast)
		meta.LastBanApprox = &approx
		meta.LastBanYear = approx.Year()
	}
	return meta
}

// summaryFor assembles the one-sentence explanation from up to 2-3 reason
// fragments, toned by the final score.
func summaryFor(score *int, verdict string, in Input, ageYears *int) string {
	if score == nil || verdict == VerdictUnknown {
		return "Profile is locked down; not enough public signals to score. Proceed with caution."
	}

	var reasons []string

	if ageYears != nil {
		switch y := *ageYears; {
		case y >= 10:
			reasons = append(reasons, "older account")
		case y >= 5:
			reasons = append(reasons, "established account age")
		case y >= 2:
			reasons = append(reasons, "some account history")
		default:
			reasons = append(reasons, "young account")
		}
	}

	if in.Bans != nil {
		if in.Bans.HasAny() {
			reasons = append(reasons, "ban history present")
		} else {
			reasons = append(reasons, "clean ban history")
		}
	}

	if in.GameName != "" && in.GameHours != nil {
		switch h := *in.GameHours; {
		case h < 10:
			reasons = append(reasons, fmt.Sprintf("very low %s hours", in.GameName))
		case h < 20:
			reasons = append(reasons, fmt.Sprintf("low %s hours", in.GameName))
		case h >= 100:
			reasons = append(reasons, fmt.Sprintf("strong %s playtime", in.GameName))
		default:
			reasons = append(reasons, fmt.Sprintf("solid %s playtime", in.GameName))
		}
	}

	if in.GameCount != nil {
		switch g := *in.GameCount; {
		case g >= 100:
			reasons = append(reasons, "real game library")
		case g <= 3:
			reasons = append(reasons, "tiny library")
		default:
			reasons = append(reasons, "some library footprint")
		}
	}

	if in.FriendCount != nil {
		switch f := *in.FriendCount; {
		case f >= 50:
			reasons = append(reasons, "social footprint")
		case f == 0:
			reasons = append(reasons, "no visible friends")
		}
	}

	tone := "neg"
	switch {
	case *score >= 70:
		tone = "pos"
	case *score >= 50:
		tone = "mid"
	}
	maxReasons := 2
	if tone == "pos" {
		maxReasons = 3
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(reasons) == 0 {
		return "Trust score is based on the available public signals."
	}

	joined := strings.Join(reasons, ", ")
	switch tone {
	case "neg":
		return fmt.Sprintf("Several risk signals: %s.", joined)
	case "mid":
		return fmt.Sprintf("Mixed signals: %s.", joined)
	default:
		return fmt.Sprintf("Strong signals: %s.", joined)
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
