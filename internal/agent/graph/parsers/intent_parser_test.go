package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntentResponseCanonical(t *testing.T) {
	content := `{
		"need_summary": "iPhone 15 Pro within budget",
		"category": "smartphone",
		"search_query": "iphone 15 pro 256gb",
		"budget_min": 3000,
		"budget_max": 5000,
		"must_have": ["256gb"],
		"nice_to_have": ["blue"],
		"missing_info": [],
		"follow_up_question": null,
		"ready": true
	}`

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.Equal(t, "smartphone", intent.Category)
	assert.Equal(t, "iphone 15 pro 256gb", intent.SearchQuery)
	require.NotNil(t, intent.BudgetMin)
	assert.Equal(t, 3000.0, *intent.BudgetMin)
	require.NotNil(t, intent.BudgetMax)
	assert.Equal(t, 5000.0, *intent.BudgetMax)
	assert.Equal(t, []string{"256gb"}, intent.MustHave)
	assert.True(t, intent.Ready)
	assert.Nil(t, intent.FollowUpQuestion)
}

func TestParseIntentResponseLegacyKeys(t *testing.T) {
	content := `{
		"search_query": "laptop",
		"enough_information": false,
		"missing_details": ["budget", "screen size"]
	}`

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.False(t, intent.Ready)
	assert.Equal(t, []string{"budget", "screen size"}, intent.MissingInfo)
}

func TestParseIntentResponseCanonicalKeysWinOverLegacy(t *testing.T) {
	content := `{"ready": true, "enough_information": false, "search_query": "q"}`

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.True(t, intent.Ready)
}

func TestParseIntentResponseStripsCodeFence(t *testing.T) {
	content := "```json\n{\"search_query\": \"iphone\", \"ready\": true}\n```"

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.Equal(t, "iphone", intent.SearchQuery)
	assert.True(t, intent.Ready)
}

func TestParseIntentResponseSurroundingProse(t *testing.T) {
	content := "Sure, here is the extracted intent:\n{\"search_query\": \"iphone\", \"ready\": true}\nLet me know if you need anything else."

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.Equal(t, "iphone", intent.SearchQuery)
}

func TestParseIntentResponseBlankFollowUpBecomesAbsent(t *testing.T) {
	content := `{"search_query": "q", "ready": false, "follow_up_question": "   "}`

	intent, err := ParseIntentResponse(content)

	require.NoError(t, err)
	assert.Nil(t, intent.FollowUpQuestion)
}

func TestParseIntentResponseDefaultsCollections(t *testing.T) {
	intent, err := ParseIntentResponse(`{"search_query": "q"}`)

	require.NoError(t, err)
	assert.False(t, intent.Ready)
	assert.NotNil(t, intent.MustHave)
	assert.NotNil(t, intent.NiceToHave)
	assert.NotNil(t, intent.MissingInfo)
	assert.Empty(t, intent.MustHave)
}

func TestParseIntentResponseNoJSON(t *testing.T) {
	_, err := ParseIntentResponse("I could not determine the intent, sorry.")
	assert.Error(t, err)
}

func TestParseIntentResponseMalformedJSON(t *testing.T) {
	_, err := ParseIntentResponse(`{"search_query": "q", "ready": tru}`)
	assert.Error(t, err)
}
