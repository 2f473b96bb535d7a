package portal

import (
	"casestatus-backend/internal/components/telemetry"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const portalPage = `<html><body>
<form id="caseno_form">
	<select name="case_type_name">
		<option value="">-- Select --</option>
		<option value="WP">WP</option>
		<option value="CRL.A">CRL.A</option>
		<option value="WA">WA</option>
		<option value="WP">WP</option>
	</select>
	<input name="RegCase_no">
	<input name="RegCase_year">
	<img id="contact_captcha_img" src="captcha.php">
	<input name="caseno_captcha">
	<button id="submit">Submit</button>
</form>
<div id="caseno_search_result"></div>
</body></html>`

func TestParseForm(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(portalPage))
	require.NoError(t, err)

	form := ParseForm(doc)
	require.True(t, form.Ready())
	require.Empty(t, form.MissingControls())
	require.Equal(t, []string{"WP", "CRL.A", "WA"}, form.CaseTypes)
}

func TestParseFormMissingControls(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<input name="RegCase_no"><input name="RegCase_year">`))
	require.NoError(t, err)

	form := ParseForm(doc)
	require.False(t, form.Ready())
	require.Equal(t, []string{
		"case type",
		"captcha image",
		"captcha input",
		"submit",
		"search result",
	}, form.MissingControls())
	require.Empty(t, form.CaseTypes)
}

func TestFetchForm(t *testing.T) {
	var userAgents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.UserAgent())
		if r.URL.Path != "/case_status_mas.php" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("content-type", "text/html")
		w.Write([]byte(portalPage))
	}))
	defer server.Close()

	tel := &telemetry.Recorder{}
	client, err := NewClient(server.URL+"/case_status_mas.php", tel)
	require.NoError(t, err)

	form, err := client.FetchForm(context.Background())
	require.NoError(t, err)
	require.True(t, form.Ready())
	require.Len(t, form.CaseTypes, 3)
	require.NotEmpty(t, userAgents)
	require.Contains(t, userAgents[0], "Firefox")

	missing, err := NewClient(server.URL+"/gone", tel)
	require.NoError(t, err)
	_, err = missing.FetchForm(context.Background())
	require.Error(t, err)
	require.Len(t, tel.Reports("warning", report_client_fetch_form), 1)
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("case_status_mas.php", &telemetry.Recorder{})
	require.Error(t, err)
}

func TestSuggestCaseTypes(t *testing.T) {
	known := []string{"WP", "WA", "CRL.A", "CRL.OP", "CMA", "SA"}

	suggestions := SuggestCaseTypes(known, "crl", 2)
	require.Len(t, suggestions, 2)
	for _, s := range suggestions {
		require.True(t, strings.HasPrefix(s.CaseType, "CRL"), s.CaseType)
	}

	suggestions = SuggestCaseTypes(known, "wp", 3)
	require.Equal(t, "WP", suggestions[0].CaseType)
	require.Equal(t, 1.0, suggestions[0].Score)

	require.Empty(t, SuggestCaseTypes(known, "  ", 3))
	require.Empty(t, SuggestCaseTypes(known, "WP", 0))
}
