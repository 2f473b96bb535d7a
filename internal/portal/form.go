package portal

import (
	"casestatus-backend/internal/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Control struct {
	Name     string
	Selector string
	Present  bool
}

type Form struct {
	Controls  []Control
	CaseTypes []string
}

// controls the browser pipeline depends on, in the order it touches them
var requiredControls = []Control{
	{Name: "case type", Selector: "[name=case_type_name]"},
	{Name: "case number", Selector: "[name=RegCase_no]"},
	{Name: "case year", Selector: "[name=RegCase_year]"},
	{Name: "captcha image", Selector: "#contact_captcha_img"},
	{Name: "captcha input", Selector: "[name=caseno_captcha]"},
	{Name: "submit", Selector: "#submit"},
	{Name: "search result", Selector: "#caseno_search_result"},
}

func ParseForm(doc *goquery.Document) Form {
	form := Form{Controls: make([]Control, len(requiredControls))}
	for i, control := range requiredControls {
		control.Present = doc.Find(control.Selector).Length() > 0
		form.Controls[i] = control
	}

	seen := map[string]bool{}
	doc.Find("select[name=case_type_name] option, datalist option").Each(func(_ int, option *goquery.Selection) {
		value := htmlutil.CleanText(option.AttrOr("value", ""))
		if value == "" {
			value = htmlutil.SelectionText(option)
		}
		// placeholder entries like "-- Select --"
		if value == "" || strings.HasPrefix(value, "-") || seen[value] {
			return
		}
		seen[value] = true
		form.CaseTypes = append(form.CaseTypes, value)
	})
	return form
}

func (f Form) Ready() bool {
	return len(f.MissingControls()) == 0
}

func (f Form) MissingControls() []string {
	var missing []string
	for _, control := range f.Controls {
		if !control.Present {
			missing = append(missing, control.Name)
		}
	}
	return missing
}
