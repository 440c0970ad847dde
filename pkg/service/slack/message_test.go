package slack_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	slackapi "github.com/slack-go/slack"

	"github.com/freightops/carrierwatch/pkg/domain/model"
	slacksvc "github.com/freightops/carrierwatch/pkg/service/slack"
)

func intPtr(v int) *int { return &v }

// renderBlocks flattens all text in the message blocks for assertions
func renderBlocks(t *testing.T, msg *slackapi.WebhookMessage) string {
	t.Helper()
	gt.Value(t, msg.Blocks).NotEqual(nil)

	var b strings.Builder
	for _, block := range msg.Blocks.BlockSet {
		switch v := block.(type) {
		case *slackapi.HeaderBlock:
			b.WriteString(v.Text.Text + "\n")
		case *slackapi.SectionBlock:
			b.WriteString(v.Text.Text + "\n")
		case *slackapi.ContextBlock:
			for _, elem := range v.ContextElements.Elements {
				if text, ok := elem.(*slackapi.TextBlockObject); ok {
					b.WriteString(text.Text + "\n")
				}
			}
		}
	}
	return b.String()
}

func TestBuildRiskMessage(t *testing.T) {
	record := &model.CarrierRecord{
		CompanyName:  "ACME TRUCKING LLC",
		DotNumber:    "1234567",
		DocketNumber: "MC987654",
		RiskAssessmentDetails: &model.RiskAssessment{
			TotalPoints: intPtr(130),
			Authority: &model.RiskCategory{
				TotalPoints: intPtr(130),
				Infractions: []model.Infraction{
					{RuleText: "Authority age", RuleOutput: "Less than 6 months", Points: 130},
				},
			},
			Insurance: &model.RiskCategory{
				TotalPoints: intPtr(0),
			},
		},
	}

	msg := slacksvc.BuildRiskMessage(record)
	gt.Value(t, msg.ResponseType).Equal(slackapi.ResponseTypeInChannel)

	rendered := renderBlocks(t, msg)

	gt.Bool(t, strings.Contains(rendered, "MyCarrierPortal Risk Assessment")).True()
	gt.Bool(t, strings.Contains(rendered, "*ACME TRUCKING LLC*")).True()
	gt.Bool(t, strings.Contains(rendered, "DOT: 1234567 / MC: MC987654")).True()
	gt.Bool(t, strings.Contains(rendered, "*Overall assessment:* 🟡 Medium")).True()
	gt.Bool(t, strings.Contains(rendered, "Total Points: 130")).True()

	// Authority has one infraction, Insurance has none
	gt.Bool(t, strings.Contains(rendered, "*Authority:* 🟡 Medium")).True()
	gt.Bool(t, strings.Contains(rendered, "- Authority age: Less than 6 months (130 points)")).True()
	gt.Bool(t, strings.Contains(rendered, "*Insurance:* 🟢 Low")).True()
	gt.Bool(t, strings.Contains(rendered, "No infractions found.")).True()

	// Categories absent from the payload are not rendered
	gt.Bool(t, strings.Contains(rendered, "*Safety:*")).False()
	gt.Bool(t, strings.Contains(rendered, "*Operation:*")).False()
	gt.Bool(t, strings.Contains(rendered, "*Other:*")).False()

	// No protection flags, no MyCarrierProtect bucket
	gt.Bool(t, strings.Contains(rendered, "MyCarrierProtect")).False()
}

func TestBuildRiskMessage_CategoryOrder(t *testing.T) {
	record := &model.CarrierRecord{
		CompanyName: "ORDERED CARRIER",
		RiskAssessmentDetails: &model.RiskAssessment{
			TotalPoints: intPtr(0),
			Other:       &model.RiskCategory{TotalPoints: intPtr(0)},
			Authority:   &model.RiskCategory{TotalPoints: intPtr(0)},
			Safety:      &model.RiskCategory{TotalPoints: intPtr(0)},
		},
	}

	rendered := renderBlocks(t, slacksvc.BuildRiskMessage(record))

	authority := strings.Index(rendered, "*Authority:*")
	safety := strings.Index(rendered, "*Safety:*")
	other := strings.Index(rendered, "*Other:*")
	gt.Bool(t, authority >= 0 && safety > authority && other > safety).True()
}

func TestBuildRiskMessage_ProtectionBucket(t *testing.T) {
	record := &model.CarrierRecord{
		CompanyName:           "RISKY CARRIER",
		IsBlocked:             true,
		FreightValidateStatus: model.FreightValidateReviewRecommended,
		RiskAssessmentDetails: &model.RiskAssessment{TotalPoints: intPtr(0)},
	}

	rendered := renderBlocks(t, slacksvc.BuildRiskMessage(record))

	// Both flags triggered: 2000 points, two infractions, classified Fail
	gt.Bool(t, strings.Contains(rendered, "*MyCarrierProtect:* 🔴 Fail")).True()
	gt.Bool(t, strings.Contains(rendered, "Risk Level: Fail | Points: 2000")).True()
	gt.Bool(t, strings.Contains(rendered, "- MyCarrierProtect: Blocked: Carrier blocked by 3 or more companies (1000 points)")).True()
	gt.Bool(t, strings.Contains(rendered, "- FreightValidate Status: Carrier has a FreightValidate Review Recommended status (1000 points)")).True()
}

func TestBuildRiskMessage_SingleProtectionFlag(t *testing.T) {
	record := &model.CarrierRecord{
		CompanyName:           "BLOCKED CARRIER",
		IsBlocked:             true,
		RiskAssessmentDetails: &model.RiskAssessment{TotalPoints: intPtr(0)},
	}

	rendered := renderBlocks(t, slacksvc.BuildRiskMessage(record))

	gt.Bool(t, strings.Contains(rendered, "*MyCarrierProtect:* 🔴 Fail")).True()
	gt.Bool(t, strings.Contains(rendered, "Points: 1000")).True()
	gt.Bool(t, strings.Contains(rendered, "FreightValidate Status")).False()
}

func TestBuildRiskMessage_NoProtectionBucket(t *testing.T) {
	record := &model.CarrierRecord{
		CompanyName:           "CLEAN CARRIER",
		IsBlocked:             false,
		FreightValidateStatus: "Passed",
		RiskAssessmentDetails: &model.RiskAssessment{TotalPoints: intPtr(10)},
	}

	rendered := renderBlocks(t, slacksvc.BuildRiskMessage(record))
	gt.Bool(t, strings.Contains(rendered, "MyCarrierProtect")).False()
}

func TestBuildRiskMessage_MissingFields(t *testing.T) {
	record := &model.CarrierRecord{}

	msg := slacksvc.BuildRiskMessage(record)
	rendered := renderBlocks(t, msg)

	// Absent identity and points render as N/A; classification defaults to 0
	gt.Bool(t, strings.Contains(rendered, "*N/A*")).True()
	gt.Bool(t, strings.Contains(rendered, "DOT: N/A / MC: N/A")).True()
	gt.Bool(t, strings.Contains(rendered, "*Overall assessment:* 🟢 Low")).True()
	gt.Bool(t, strings.Contains(rendered, "Total Points: N/A")).True()
}
