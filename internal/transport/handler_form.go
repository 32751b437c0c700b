package transport

import (
	"net/http"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/form"
)

// fieldView is the wire shape of one form field, adding the presentation
// cell identifier to the field definition.
type fieldView struct {
	form.Field
	CellIdentifier string `json:"cellIdentifier"`
}

type sectionView struct {
	Fields []fieldView `json:"fields"`
}

type formView struct {
	Sections []sectionView `json:"sections"`
}

func viewOf(f form.Form) formView {
	view := formView{Sections: make([]sectionView, 0, len(f.Sections))}
	for _, section := range f.Sections {
		sv := sectionView{Fields: make([]fieldView, 0, len(section.Fields))}
		for _, field := range section.Fields {
			sv.Fields = append(sv.Fields, fieldView{
				Field:          field,
				CellIdentifier: field.CellIdentifier(),
			})
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

// handleGetExpenseForm serves the dynamic expense form. Without a query
// parameter the form is blank for creation; with ?expenseId= the expense is
// fetched and its values bound for editing.
func handleGetExpenseForm(builder *form.Builder, binder *form.Binder, expenses client.ExpenseAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := builder.Build()

		if expenseID := r.URL.Query().Get("expenseId"); expenseID != "" {
			expense, err := expenses.Details(r.Context(), expenseID)
			if err != nil {
				WriteError(w, err)
				return
			}
			binder.Bind(&f, expense)
		}

		WriteJSON(w, http.StatusOK, viewOf(f))
	}
}
