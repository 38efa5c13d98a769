package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
)

// catalogo formato del archivo de datos maestros:
//
//	<catalogo>
//	  <recurso nombre="Tornillo"/>
//	  <unidad nombre="Caja"/>
//	  <cliente nombre="Acme" direccion="Calle 1"/>
//	</catalogo>
type catalogo struct {
	Recursos []entrada `xml:"recurso"`
	Unidades []entrada `xml:"unidad"`
	Clientes []entrada `xml:"cliente"`
}

type entrada struct {
	Nombre    string `xml:"nombre,attr"`
	Direccion string `xml:"direccion,attr"`
}

// seedItem dato maestro listo para crear.
type seedItem struct {
	Kind entity.ReferenceKind
	In   dto.CreateReferenceRequest
}

// parseCatalog decodifica el catálogo; acepta UTF-8 e ISO-8859-1 (exportaciones de hojas de cálculo).
// Las entradas sin nombre se omiten.
func parseCatalog(r io.Reader) ([]seedItem, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		if strings.EqualFold(charset, "UTF-8") {
			return input, nil
		}
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	var items []seedItem
	add := func(kind entity.ReferenceKind, list []entrada) {
		for _, e := range list {
			name := strings.TrimSpace(e.Nombre)
			if name == "" {
				continue
			}
			in := dto.CreateReferenceRequest{Name: name}
			if kind == entity.ReferenceClient {
				in.Address = strings.TrimSpace(e.Direccion)
			}
			items = append(items, seedItem{Kind: kind, In: in})
		}
	}
	add(entity.ReferenceResource, c.Recursos)
	add(entity.ReferenceUnit, c.Unidades)
	add(entity.ReferenceClient, c.Clientes)
	return items, nil
}
