package usecase

import (
	"encoding/json"
	"fmt"

	"realm/internal/domain"
)

// rubrics holds the evaluation instructions for each 5C category. Each rubric
// names the elements to evaluate, a 0-5 reference scale, and the shape of the
// expected conclusion.
var rubrics = map[domain.Category]string{
	domain.Character: `Analyze the provided project document, focusing on the Character aspect for credit scoring. Evaluate the following elements:
1. Years in operation
2. Industry reputation
3. Management experience
4. Regulatory compliance history

Scoring (0-5 scale):
0 - Poor reputation, multiple regulatory issues
1 - Some concerns, minor regulatory issues
2 - Average reputation, no major issues
3 - Good reputation, strong compliance
4 - Excellent reputation, industry leader
5 - Outstanding reputation, exemplary track record

Provide a concise analysis addressing each element above. If any information is missing, note its absence. Conclude with:
1. An overall Character assessment summary
2. A Character score on a scale of 0-100
3. Brief recommendations for improvement or areas needing clarification
Base your analysis solely on the document's content. Maintain objectivity and a professional tone throughout your response.`,

	domain.Capacity: `Analyze the provided project document, focusing on the Capacity aspect for credit scoring. Evaluate the following elements:
1. Debt-to-equity ratio
2. Operating cash flow
3. Profit margins
4. Revenue growth rate

Scoring (0-5 scale):
0 - Severe financial distress
1 - Struggling financially
2 - Average financial performance
3 - Strong financial position
4 - Very strong financials
5 - Exceptional financial health

Provide a brief analysis for each element above. If any information is missing, note its absence. Conclude with:
1. An overall Capacity assessment summary
2. A Capacity score on a scale of 0-100
3. Key recommendations for enhancing project capacity
Base your analysis solely on the document's content. Maintain objectivity and a professional tone throughout your response.`,

	domain.Capital: `Analyze the provided project document, focusing on the Capital aspect for credit scoring. Evaluate the following elements:
1. Total assets
2. Net worth
3. Liquidity ratio
4. Capital adequacy ratio (for financial institutions)

Scoring (0-5 scale):
0 - Severely undercapitalized
1 - Undercapitalized
2 - Adequately capitalized
3 - Well-capitalized
4 - Very well-capitalized
5 - Exceptionally strong capital position

Provide a brief analysis for each element above. If any information is missing, note its absence. Conclude with:
1. An overall Capital assessment summary
2. A Capital score on a scale of 0-100
3. Recommendations for improving capital position or structure
Base your analysis solely on the document's content. Maintain objectivity and a professional tone throughout your response.`,

	domain.Collateral: `Analyze the provided project document, focusing on the Collateral aspect for credit scoring. Evaluate the following elements:
1. Quality of assets
2. Diversification of asset portfolio
3. Valuation of assets
4. Ease of liquidation

Scoring (0-5 scale):
0 - No viable collateral
1 - Limited, low-quality collateral
2 - Adequate collateral
3 - Good quality, diversified collateral
4 - High-quality, easily liquidated collateral
5 - Premium collateral or strong guarantees

Provide a brief analysis for each element above. If any information is missing, note its absence. Conclude with:
1. An overall Collateral assessment summary
2. A Collateral score on a scale of 0-100
3. Recommendations for improving collateral quality or coverage
Base your analysis solely on the document's content. Maintain objectivity and a professional tone throughout your response.`,

	domain.Conditions: `Analyze the provided project document, focusing on the Conditions aspect for credit scoring. Evaluate the following elements:
1. Economic conditions in customer's primary markets
2. Industry trends
3. Geopolitical risks
4. Natural disaster exposure

Scoring (0-5 scale):
0 - Extremely unfavorable conditions
1 - Challenging conditions
2 - Neutral conditions
3 - Favorable conditions
4 - Very favorable conditions
5 - Optimal conditions for growth and stability

Provide a brief analysis for each element above. If any information is missing, note its absence. Conclude with:
1. An overall Conditions assessment summary
2. A Conditions score on a scale of 0-100
3. Recommendations for addressing unfavorable conditions or leveraging positive ones
Base your analysis solely on the document's content. Maintain objectivity and a professional tone throughout your response.`,
}

// Rubric returns the evaluation rubric for a category, or "" for an unknown one.
func Rubric(category domain.Category) string {
	return rubrics[category]
}

// BuildAnalysisPrompt assembles the single-category analysis prompt: the
// document content followed by the category's rubric.
func BuildAnalysisPrompt(category domain.Category, content string) string {
	return fmt.Sprintf(
		"Analyze the following content focusing on the %s aspect of the 5C method:\n\n%s\n\n%s: %s\n\nProvide key points and insights based on the given content.",
		category, content, category, rubrics[category],
	)
}

// BuildFollowUpPrompt assembles the chat prompt for a question asked after an
// analysis run, embedding the full analysis as indented JSON so the model can
// ground its answer in it. An empty analysis map serializes as {} and the
// prompt still works.
func BuildFollowUpPrompt(analysis map[domain.Category]string, question string) string {
	encoded, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf(
		"Based on the 5C analysis provided earlier:\n\n%s\n\nAnd the user's question:\n\nUser: %s\n\nProvide a detailed and informative answer, incorporating relevant aspects from the 5C analysis where applicable.",
		encoded, question,
	)
}
