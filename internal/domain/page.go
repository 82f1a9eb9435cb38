package domain

// Page groups the fields placed on one PDF page. Pages are numbered
// densely starting at 1.
type Page struct {
	Num    int     `json:"num"`
	Fields []Field `json:"fields"`
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	fields := make([]Field, len(p.Fields))
	for i, field := range p.Fields {
		fields[i] = field.Clone()
	}
	return Page{Num: p.Num, Fields: fields}
}

// ClonePages deep-copies a page list. History snapshots and store
// round-trips go through here so later edits never alias shared state.
func ClonePages(pages []Page) []Page {
	cloned := make([]Page, len(pages))
	for i, page := range pages {
		cloned[i] = page.Clone()
	}
	return cloned
}

// AlignPages reconciles the field-data page list with the page count the
// PDF actually reports: missing pages get an empty field list, pages
// beyond the PDF's count are dropped.
func AlignPages(pages []Page, pageCount int) []Page {
	if pageCount < 1 {
		pageCount = 1
	}
	byNum := make(map[int]Page, len(pages))
	for _, page := range pages {
		byNum[page.Num] = page
	}
	aligned := make([]Page, 0, pageCount)
	for num := 1; num <= pageCount; num++ {
		if page, ok := byNum[num]; ok {
			aligned = append(aligned, page.Clone())
			continue
		}
		aligned = append(aligned, Page{Num: num, Fields: []Field{}})
	}
	return aligned
}

// NormalizePages repairs field invariants on every page in place.
func NormalizePages(pages []Page) {
	for i := range pages {
		if pages[i].Fields == nil {
			pages[i].Fields = []Field{}
		}
		for j := range pages[i].Fields {
			pages[i].Fields[j].Normalize()
		}
	}
}
