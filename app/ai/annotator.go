package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/tags"
)

// Annotator produces tag and summary annotations for bills that arrive
// without precomputed ones.
type Annotator struct {
	client openai.Client
	model  string
}

func NewAnnotator(apiKey string) *Annotator {
	return &Annotator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  "gpt-4o-mini",
	}
}

// Annotate categorizes and summarizes one bill. The input text should carry
// the bill's title, description, and whatever sponsor data is available.
func (a *Annotator) Annotate(ctx context.Context, text string) (legislation.Annotation, error) {
	billTags, err := a.Categorize(ctx, text)
	if err != nil {
		return legislation.Annotation{}, fmt.Errorf("failed to categorize: %w", err)
	}

	summary, err := a.Summarize(ctx, text)
	if err != nil {
		return legislation.Annotation{}, fmt.Errorf("failed to summarize: %w", err)
	}

	return legislation.Annotation{
		Summary: summary,
		Tags:    billTags,
	}, nil
}

// Categorize asks the model to pick topics from the fixed tag vocabulary.
// The response is comma separated; tags outside the vocabulary are left for
// the feed builder's normalization to discard.
func (a *Annotator) Categorize(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`Categorize this legislation. Give the response with only comma separated answers:

%s

The only categories you should pick from are:

%s

If no categories match, respond with "Other".
`, text, strings.Join(tags.Allowed, "\n"))

	content, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	// The model sometimes appends a period with this prompt. Remove it.
	trimmed = strings.TrimSuffix(trimmed, ".")

	parts := strings.Split(trimmed, ",")
	billTags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			billTags = append(billTags, tag)
		}
	}

	return billTags, nil
}

// Summarize asks the model for a short newspaper-style summary.
func (a *Annotator) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`
For each piece of legislation data, create a 2-3 sentence summary where the first sentence functions as a newspaper-style headline. The headline should be concise, present-tense, and capture the most newsworthy aspect of the legislation.
If data is available, integrate the political backing (bipartisan, Republican-led, or Democrat-led) into the headline. The entire summary should read like the opening of a news article.
Examples of effective headlines:

'Senate Passes Farm Bill with Expanded Rural Broadband Funding'
'Bipartisan Infrastructure Package Allocates $25 Billion for Bridge Repairs'
'Republican-Led Bill Seeks to Deter ICC from Targeting U.S. Personnel'
'New Climate Legislation Aims to Cut Emissions 50%% by 2035'
'Democrat-Sponsored Privacy Act Would Restrict Data Collection by Tech Giants'
'Defense Authorization Increases Military Pay by 3.5%% in Coming Fiscal Year'

Avoid speculating on missing information, like if the legislation doesn't seem sponsored, repeating the title unnecessarily, or using stock phrases like 'Bill introduced.' Focus only on information explicitly provided while maintaining a neutral, factual tone throughout.

=== START LEGISLATION DATA ===

%s

=== END LEGISLATION DATA ===`, text)

	content, err := a.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

func (a *Annotator) complete(ctx context.Context, prompt string) (string, error) {
	response, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(500),
	})

	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return response.Choices[0].Message.Content, nil
}

// BillText flattens the fields the prompts need into one block.
func BillText(bill legislation.Bill) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Identifier: %s\n", bill.Identifier))
	sb.WriteString(fmt.Sprintf("Title: %s\n", bill.Title))
	if bill.Description != "" && bill.Description != bill.Title {
		sb.WriteString(fmt.Sprintf("Description: %s\n", bill.Description))
	}
	if bill.Classification != "" {
		sb.WriteString(fmt.Sprintf("Classification: %s\n", bill.Classification))
	}
	if len(bill.Sponsors) > 0 {
		names := make([]string, len(bill.Sponsors))
		for i, sponsor := range bill.Sponsors {
			names[i] = sponsor.Name
		}
		sb.WriteString(fmt.Sprintf("Sponsors: %s\n", strings.Join(names, ", ")))
	}
	if bill.BillSummary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", bill.BillSummary))
	}
	return sb.String()
}
