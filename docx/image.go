package docx

import (
	"fmt"
	"strings"
)

// inlineDrawing emits the wp:inline block for an embedded picture. The
// drawing markup nests too many one-off elements to justify typed structs,
// so it travels as a raw XML blob, the namespaces being declared on the
// part root.
func inlineDrawing(relID string, index int, widthIn, heightIn float64) string {
	cx := int64(widthIn * emuPerInch)
	cy := int64(heightIn * emuPerInch)
	name := fmt.Sprintf("Picture %d", index)

	var b strings.Builder
	fmt.Fprintf(&b, `<wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(&b, `<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(&b, `<wp:docPr id="%d" name=%q/>`, index, name)
	b.WriteString(`<a:graphic>`)
	b.WriteString(`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	b.WriteString(`<pic:pic>`)
	fmt.Fprintf(&b, `<pic:nvPicPr><pic:cNvPr id="%d" name=%q/><pic:cNvPicPr/></pic:nvPicPr>`, index, name)
	fmt.Fprintf(&b, `<pic:blipFill><a:blip r:embed=%q/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID)
	b.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/>`)
	fmt.Fprintf(&b, `<a:ext cx="%d" cy="%d"/>`, cx, cy)
	b.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline>`)
	return b.String()
}

// Image content types by extension.
var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
}

// ImageExtensionSupported reports whether the writer can embed the format.
func ImageExtensionSupported(ext string) bool {
	_, ok := imageContentTypes[strings.ToLower(ext)]
	return ok
}
