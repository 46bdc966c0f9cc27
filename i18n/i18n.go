// Package i18n holds the operator-facing message catalogue.
package i18n

import "strings"

const DefaultLang = "en"

var catalog = map[string]map[string]string{
	"en": {
		"required":              "Required",
		"warn_no_folder":        "Please select a valid folder first!",
		"warn_folder_not_found": "The selected folder does not exist!",
		"warn_no_files":         "No Excel files found in selected folder!",
		"warn_no_data":          "No data found in database!",
		"connection_ok":         "Database connection successful! Database created if not existed.",
		"connection_failed":     "Connection failed",
		"preview_summary":       "Found %[1]d Excel files | Showing first %[2]d rows from %[3]s",
		"preview_failed":        "Preview failed",
		"ingest_done":           "Data processed successfully!",
		"ingest_failed":         "Processing failed",
		"files_processed":       "Files processed",
		"records_upserted":      "Records inserted/updated",
		"records_inserted":      "New records",
		"records_updated":       "Updated records",
		"duplicates_removed":    "Duplicates removed",
		"missing_bill_no":       "Rows without bill number",
		"rows_skipped":          "Rows skipped",
		"export_done":           "Yearly Excel file exported successfully!",
		"export_failed":         "Export failed",
		"location":              "Location",
		"settings_saved":        "Settings saved",
		"warning":               "Warning",
	},
	"hi": {
		"required":              "आवश्यक",
		"warn_no_folder":        "कृपया पहले एक मान्य फ़ोल्डर चुनें!",
		"warn_folder_not_found": "चयनित फ़ोल्डर मौजूद नहीं है!",
		"warn_no_files":         "चयनित फ़ोल्डर में कोई Excel फ़ाइल नहीं मिली!",
		"warn_no_data":          "डेटाबेस में कोई डेटा नहीं मिला!",
		"connection_ok":         "डेटाबेस कनेक्शन सफल! डेटाबेस न होने पर बना दिया गया।",
		"connection_failed":     "कनेक्शन विफल",
		"preview_summary":       "%[1]d Excel फ़ाइलें मिलीं | %[3]s की पहली %[2]d पंक्तियाँ",
		"preview_failed":        "पूर्वावलोकन विफल",
		"ingest_done":           "डेटा सफलतापूर्वक संसाधित हुआ!",
		"ingest_failed":         "प्रोसेसिंग विफल",
		"files_processed":       "संसाधित फ़ाइलें",
		"records_upserted":      "जोड़े/अपडेट किए गए रिकॉर्ड",
		"records_inserted":      "नए रिकॉर्ड",
		"records_updated":       "अपडेट किए गए रिकॉर्ड",
		"duplicates_removed":    "हटाए गए डुप्लिकेट",
		"missing_bill_no":       "बिल नंबर रहित पंक्तियाँ",
		"rows_skipped":          "छोड़ी गई पंक्तियाँ",
		"export_done":           "वार्षिक Excel फ़ाइल सफलतापूर्वक निर्यात हुई!",
		"export_failed":         "निर्यात विफल",
		"location":              "स्थान",
		"settings_saved":        "सेटिंग्स सहेजी गईं",
		"warning":               "चेतावनी",
	},
}

// T translates code for lang. Unknown languages fall back to English and
// unknown codes are returned as-is.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from a locale string such as
// "hi_IN.UTF-8" or an Accept-Language style list.
func DetectLanguage(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if len(locale) >= 2 {
		if _, ok := catalog[locale[:2]]; ok {
			return locale[:2]
		}
	}
	return DefaultLang
}
