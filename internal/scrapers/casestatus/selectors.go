package casestatus

// the portal's page layout, these are a contract with the external site and are not configurable
const (
	selectorCaseType     = "[name=case_type_name]"
	selectorCaseNumber   = "[name=RegCase_no]"
	selectorCaseYear     = "[name=RegCase_year]"
	selectorCaptchaImage = "#contact_captcha_img"
	selectorCaptchaInput = "[name=caseno_captcha]"
	selectorSubmit       = "#submit"
	selectorSearchResult = "#caseno_search_result"

	selectorResultTable     = "#example > tbody"
	selectorPetitioner      = "#example > tbody:nth-child(1) > tr:nth-child(6) > td:nth-child(2)"
	selectorRespondent      = "#example > tbody:nth-child(1) > tr:nth-child(7) > td:nth-child(2)"
	selectorFilingDate      = "#example > tbody:nth-child(1) > tr:nth-child(1) > td:nth-child(4)"
	selectorHearingDateCell = "table#example7 tr > td:nth-of-type(5)"

	selectorDocumentForm   = "form[action='order_view.php']"
	selectorDocumentButton = "button.pdf_but"
)
