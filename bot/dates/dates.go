// Package dates extracts leave periods and training requests out of
// free text and message embeds.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const datePattern = `(\d{1,2}/\d{1,2}/\d{2,4})`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	mentionRe    = regexp.MustCompile(`<@(\d+)>`)

	rankRe         = regexp.MustCompile(`(?i)rank:\s*(.*?)\s*(?:training:|availability:|$)`)
	trainingRe     = regexp.MustCompile(`(?i)training:\s*(.*?)\s*(?:availability:|$)`)
	availabilityRe = regexp.MustCompile(`(?i)availability:\s*(.*)`)
)

// Period is a pair of raw date strings as they appeared in the source
// text, locale M/D/YYYY or with a 2-digit year.
type Period struct {
	Start string
	End   string
}

// TrainingRequest is the labeled content of a training request message.
type TrainingRequest struct {
	Rank         string
	Training     string
	Availability string
}

// ExtractDate finds the first date token following prefix. With
// markdown set, emphasis markers in the prefix are escaped before the
// pattern is compiled.
func ExtractDate(text, prefix string, markdown bool) (string, bool) {
	if text == "" {
		return "", false
	}

	if markdown {
		prefix = strings.ReplaceAll(prefix, "*", `\*`)
	}

	re, err := regexp.Compile(`(?i)` + prefix + `\s*` + datePattern)
	if err != nil {
		return "", false
	}

	match := re.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return match[1], true
}

func extractPeriod(text, startLabel, endLabel string, markdown bool) (Period, bool) {
	start, ok := ExtractDate(text, startLabel, markdown)
	if !ok {
		return Period{}, false
	}

	end, ok := ExtractDate(text, endLabel, markdown)
	if !ok {
		return Period{}, false
	}

	return Period{Start: start, End: end}, true
}

// ParseLeavePeriod pulls a "Start:"/"End:" pair out of plain text. Both
// labels must carry a date or the result is absent.
func ParseLeavePeriod(text string) (Period, bool) {
	if text == "" {
		return Period{}, false
	}
	return extractPeriod(text, "Start:", "End:", false)
}

// ParseLeaveEmbed pulls a leave period out of a rich embed. It first
// reads the bold labels inside the "Time" field, then falls back to
// plain labels in the embed description. The order matters: bot-posted
// LOAs carry the field, hand-written ones only the description.
func ParseLeaveEmbed(embed *discordgo.MessageEmbed) (Period, bool) {
	if embed == nil {
		return Period{}, false
	}

	for _, field := range embed.Fields {
		if field == nil || field.Name != "Time" {
			continue
		}
		if period, ok := extractPeriod(field.Value, "**Start:**", "**End:**", true); ok {
			return period, true
		}
		break
	}

	return extractPeriod(embed.Description, "Start:", "End:", false)
}

// ParseTrainingRequest splits a training request message into its
// rank/training/availability segments. All three must be non-empty.
func ParseTrainingRequest(text string) (TrainingRequest, bool) {
	if text == "" {
		return TrainingRequest{}, false
	}

	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	req := TrainingRequest{
		Rank:         submatch(rankRe, text),
		Training:     submatch(trainingRe, text),
		Availability: submatch(availabilityRe, text),
	}

	if req.Rank == "" || req.Training == "" || req.Availability == "" {
		return TrainingRequest{}, false
	}

	return req, true
}

func submatch(re *regexp.Regexp, text string) string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// ParseDate turns an M/D/Y token into a date. Two-digit years land in
// the 2000s. Out-of-range day numbers roll over into the next month
// the same way the submitting platform renders them.
func ParseDate(token string) time.Time {
	parts := strings.SplitN(token, "/", 3)

	var m, d, y int
	if len(parts) > 0 {
		m, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		d, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		y, _ = strconv.Atoi(parts[2])
	}

	if y < 100 {
		y += 2000
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

// AuthorFromMention recovers the user id from the leading mention in a
// bot-posted embed description.
func AuthorFromMention(description string) (string, bool) {
	match := mentionRe.FindStringSubmatch(description)
	if match == nil {
		return "", false
	}
	return match[1], true
}
