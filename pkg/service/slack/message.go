// Package slack builds and delivers the Slack-facing output of the service:
// the Block Kit risk assessment message, slash-command replies, and ops
// channel notifications.
package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/freightops/carrierwatch/pkg/domain/model"
	"github.com/freightops/carrierwatch/pkg/domain/types"
)

const messageTitle = "MyCarrierPortal Risk Assessment"

// riskCategories is the fixed display order of the upstream assessment
// categories. Categories absent from the payload are skipped.
var riskCategories = []string{"Authority", "Insurance", "Operation", "Safety", "Other"}

// Points added to the synthetic MyCarrierProtect bucket per triggered flag.
// Each flag alone pushes the bucket straight into the Fail range.
const protectFlagPoints = 1000

// BuildRiskMessage renders a carrier record into the channel-visible Block
// Kit reply. Missing identity and point fields render as "N/A"; missing
// point fields classify as zero.
func BuildRiskMessage(record *model.CarrierRecord) *slack.WebhookMessage {
	assessment := record.RiskAssessmentDetails

	var totalPoints *int
	if assessment != nil {
		totalPoints = assessment.TotalPoints
	}
	overall := types.Classify(assessment.Points())

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, messageTitle, true, false),
		),
		markdownSection(fmt.Sprintf("*%s*\nDOT: %s / MC: %s",
			companyName(record),
			record.DotNumber.OrNA(),
			record.DocketNumber.OrNA(),
		)),
		markdownSection(fmt.Sprintf("*Overall assessment:* %s %s", overall.Glyph(), overall)),
		markdownContext(fmt.Sprintf("Total Points: %s", model.PointsLabel(totalPoints))),
		slack.NewDividerBlock(),
	}

	for _, name := range riskCategories {
		category := assessment.Category(name)
		if category == nil {
			continue
		}
		blocks = append(blocks, categoryBlocks(name, category.Points(), category.Infractions)...)
	}

	if points, infractions := protectionBucket(record); points > 0 {
		blocks = append(blocks, categoryBlocks("MyCarrierProtect", points, infractions)...)
		blocks = append(blocks, slack.NewDividerBlock())
	}

	return &slack.WebhookMessage{
		Text:         fmt.Sprintf("%s: %s", messageTitle, companyName(record)),
		ResponseType: slack.ResponseTypeInChannel,
		Blocks:       &slack.Blocks{BlockSet: blocks},
	}
}

// protectionBucket computes the synthetic MyCarrierProtect category from the
// blocked and FreightValidate flags. It is not part of the upstream category
// list; a zero total means the bucket is not displayed.
func protectionBucket(record *model.CarrierRecord) (int, []model.Infraction) {
	var points int
	var infractions []model.Infraction

	if record.IsBlocked {
		points += protectFlagPoints
		infractions = append(infractions, model.Infraction{
			RuleText:   "MyCarrierProtect: Blocked",
			RuleOutput: "Carrier blocked by 3 or more companies",
			Points:     protectFlagPoints,
		})
	}
	if record.FreightValidateStatus == model.FreightValidateReviewRecommended {
		points += protectFlagPoints
		infractions = append(infractions, model.Infraction{
			RuleText:   "FreightValidate Status",
			RuleOutput: "Carrier has a FreightValidate Review Recommended status",
			Points:     protectFlagPoints,
		})
	}

	return points, infractions
}

func categoryBlocks(name string, points int, infractions []model.Infraction) []slack.Block {
	level := types.Classify(points)
	return []slack.Block{
		markdownSection(fmt.Sprintf("*%s:* %s %s", name, level.Glyph(), level)),
		markdownContext(fmt.Sprintf("Risk Level: %s | Points: %d\nInfractions:\n%s",
			level, points, formatInfractions(infractions))),
	}
}

// formatInfractions renders one line per infraction, preserving input order
func formatInfractions(infractions []model.Infraction) string {
	if len(infractions) == 0 {
		return "No infractions found."
	}

	lines := make([]string, 0, len(infractions))
	for _, inf := range infractions {
		lines = append(lines, fmt.Sprintf("- %s: %s (%d points)",
			textOrNA(inf.RuleText), textOrNA(inf.RuleOutput), inf.Points))
	}
	return strings.Join(lines, "\n")
}

func companyName(record *model.CarrierRecord) string {
	if record.CompanyName == "" {
		return "N/A"
	}
	return record.CompanyName
}

func textOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func markdownSection(text string) slack.Block {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil,
	)
}

func markdownContext(text string) slack.Block {
	return slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
	)
}
