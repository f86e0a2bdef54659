package rebase

import (
	"fmt"
	"io"
	"strings"
)

const (
	summaryBannerSegmentConstant = "="
	summaryBannerWidthConstant   = 36
	summaryBannerTitleConstant   = "SUMMARY"
	summaryLineTemplateConstant  = "- %s (%s)\n"
)

// WriteReport renders the per-branch outcome summary to the provided writer.
func WriteReport(writer io.Writer, report RunReport) error {
	if len(report.Outcomes) == 0 {
		return nil
	}

	bannerSegment := strings.Repeat(summaryBannerSegmentConstant, summaryBannerWidthConstant)
	if _, writeError := fmt.Fprintf(writer, "\n%s %s %s\n", bannerSegment, summaryBannerTitleConstant, bannerSegment); writeError != nil {
		return writeError
	}

	for _, outcome := range report.Outcomes {
		if _, writeError := fmt.Fprintf(writer, summaryLineTemplateConstant, outcome.Branch, outcome.Status); writeError != nil {
			return writeError
		}
	}

	return nil
}
