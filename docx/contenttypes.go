package docx

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

func (d *Document) contentTypes() []byte {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	fmt.Fprintf(&b, `<Types xmlns=%q>`, nsContentTypes)

	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	exts := map[string]string{}
	for _, m := range d.media {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(m.name), "."))
		if ct, ok := imageContentTypes[ext]; ok {
			exts[ext] = ct
		}
	}
	names := make([]string, 0, len(exts))
	for ext := range exts {
		names = append(names, ext)
	}
	sort.Strings(names)
	for _, ext := range names {
		fmt.Fprintf(&b, `<Default Extension=%q ContentType=%q/>`, ext, exts[ext])
	}

	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if d.header != nil {
		b.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	}
	if d.footer != nil {
		b.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	}

	b.WriteString(`</Types>`)
	return []byte(b.String())
}

func rootRels() []byte {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	fmt.Fprintf(&b, `<Relationships xmlns=%q>`, nsPackageRels)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type=%q Target="word/document.xml"/>`, relTypeDocument)
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}
