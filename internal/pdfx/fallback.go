// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package pdfx

import (
	"context"
	"fmt"
)

// extractEstimated synthesizes advisory pages when nothing could read the
// document. The page count is estimated from the buffer size, never less
// than one page.
func (extractor *Extractor) extractEstimated(_ context.Context, buffer []byte) ([]PageText, error) {
	estimatedPages := len(buffer) / estimatedBytesPerPage
	if estimatedPages < 1 {
		estimatedPages = 1
	}

	pages := make([]PageText, 0, estimatedPages)
	for pageNumber := 1; pageNumber <= estimatedPages; pageNumber++ {
		pages = append(pages, PageText{
			Index: pageNumber,
			Text:  estimatedPagePlaceholder(pageNumber, estimatedPages),
		})
	}

	return pages, nil
}

func estimatedPagePlaceholder(pageNumber, totalPages int) string {
	return fmt.Sprintf(`# Capítulo %d

**Nota:** este PDF no pudo ser procesado automáticamente. El archivo original
se conserva y puede leerse a través del enlace al PDF original.

**Página %d de %d**

El texto completo de esta obra está disponible en el PDF original. Para una
lectura completa se recomienda descargar el PDF y abrirlo con un lector
compatible.`, pageNumber, pageNumber, totalPages)
}

// catastrophicPlaceholder is the body of the single terminal page emitted
// when every stage has failed.
func catastrophicPlaceholder() string {
	return `# Capítulo 1

**Aviso:** este PDF no pudo ser procesado automáticamente por problemas de
compatibilidad o corrupción del archivo.

El PDF original se conserva y está disponible para su descarga. Para una
lectura completa se recomienda:

- Descargar el PDF original
- Usar un lector de PDF compatible
- Verificar que el archivo no esté dañado

Esta página fue generada por el sistema para permitir la importación de la
obra aunque el procesamiento automático no haya sido posible.`
}
