package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/scheduler"
)

var difficultyColors = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "#00af9b",
	domain.DifficultyMedium: "#ffb800",
	domain.DifficultyHard:   "#ff2d55",
}

// BuildReminderHTML renders the due-review reminder body: one card per
// problem with its difficulty badge, a link to LeetCode and a stage progress
// bar.
func BuildReminderHTML(user domain.User, problems []domain.Problem) string {
	var b strings.Builder

	b.WriteString(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6;">`)
	b.WriteString("<h2>LeetCode Review Reminder</h2>")
	b.WriteString("<p>Here are your problems for review today:</p>")

	totalStages := scheduler.MaxStage + 1

	for _, p := range problems {
		problemURL := fmt.Sprintf("https://leetcode.com/problems/%s/", titleSlug(p.Title))
		progress := (p.Stage + 1) * 100 / totalStages

		fmt.Fprintf(&b,
			`<div style="border: 1px solid #ddd; border-radius: 8px; padding: 15px; margin: 10px 0; background-color: #f9f9f9;">`+
				`<span style="padding: 3px 8px; border-radius: 4px; font-size: 12px; color: white; background-color: %s;">%s</span> `+
				`<a href="%s" style="text-decoration: none; color: #1a1a1a;">#%d %s</a>`+
				`<div style="margin-top: 10px; color: #666;">Stage %d/%d`+
				`<div style="background-color: #eee; height: 5px; border-radius: 3px; margin-top: 5px;">`+
				`<div style="background-color: #4CAF50; height: 100%%; width: %d%%; border-radius: 3px;"></div>`+
				`</div></div></div>`,
			difficultyColors[p.Difficulty], p.Difficulty,
			problemURL, p.LeetcodeNumber, html.EscapeString(p.Title),
			p.Stage+1, totalStages,
			progress,
		)
	}

	b.WriteString(`<p style="color: #666; margin-top: 20px;">Keep up the great work! Regular review is key to mastering algorithms.</p>`)
	b.WriteString("</body></html>")

	return b.String()
}

func titleSlug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
