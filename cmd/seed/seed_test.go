package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/memstore"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

const catalogoUTF8 = `<?xml version="1.0" encoding="UTF-8"?>
<catalogo>
  <recurso nombre="Tornillo"/>
  <recurso nombre="  "/>
  <unidad nombre="Caja"/>
  <cliente nombre="Acme" direccion=" Calle 1 "/>
</catalogo>`

func TestParseCatalog_UTF8(t *testing.T) {
	items, err := parseCatalog(strings.NewReader(catalogoUTF8))
	require.NoError(t, err)
	require.Len(t, items, 3, "la entrada sin nombre se omite")
	assert.Equal(t, entity.ReferenceResource, items[0].Kind)
	assert.Equal(t, "Tornillo", items[0].In.Name)
	assert.Equal(t, entity.ReferenceUnit, items[1].Kind)
	assert.Equal(t, entity.ReferenceClient, items[2].Kind)
	assert.Equal(t, "Calle 1", items[2].In.Address)
}

func TestParseCatalog_ISO88591(t *testing.T) {
	// "Tuerca Ñ" con Ñ = 0xD1 en Latin-1
	raw := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><catalogo><recurso nombre="Tuerca `), 0xD1)
	raw = append(raw, []byte(`"/></catalogo>`)...)

	items, err := parseCatalog(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tuerca Ñ", items[0].In.Name)
}

func TestParseCatalog_CharsetDesconocido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(`<?xml version="1.0" encoding="EBCDIC"?><catalogo/>`))
	assert.Error(t, err)
}

func TestSeed_DuplicadosSeOmiten(t *testing.T) {
	items, err := parseCatalog(strings.NewReader(catalogoUTF8))
	require.NoError(t, err)
	uc := usecase.NewReferenceUseCase(memstore.New().References(), nil)

	first := seed(context.Background(), uc, items, logger.Nop())
	assert.Equal(t, seedResult{created: 3}, first)

	second := seed(context.Background(), uc, items, logger.Nop())
	assert.Equal(t, seedResult{skipped: 3}, second, "una segunda carga no duplica")
}
