package catalog

var apartmentColumns = []Column{
	{Key: "apartamento", Label: "Apartamento", Kind: KindText},
	{Key: "area_construida", Label: "Área Construida", Kind: KindArea},
	{Key: "valor_mt2", Label: "Valor m²", Kind: KindCurrency},
	{Key: "area_terraza", Label: "Área Terraza", Kind: KindArea},
	{Key: "valor_mt2_terraza", Label: "Valor m² Terraza", Kind: KindCurrency},
	{Key: "valor_terraza", Label: "Valor Terraza", Kind: KindCurrency},
	{Key: "valor_ac", Label: "Valor A.C.", Kind: KindCurrency},
	{Key: "valor_total", Label: "Valor Total", Kind: KindCurrency},
	{Key: "cuota_inicial_pct", Label: "Cuota Inicial %", Kind: KindPercent},
	{Key: "cuota_inicial_valor", Label: "Cuota Inicial Valor", Kind: KindCurrency},
	{Key: "separacion_5", Label: "Separación 5%", Kind: KindCurrency},
	{Key: "saldo_inicial", Label: "Saldo Inicial", Kind: KindCurrency},
	{Key: "cuota_mensual_mes1", Label: "Cuota Mensual Mes 1", Kind: KindCurrency},
	{Key: "saldo_contra_escrituracion", Label: "Saldo Contra Escrituración", Kind: KindCurrency},
	{Key: "vendido", Label: "Vendido", Kind: KindBool, Badge: true},
}

var apartmentSpec = newSpec(Apartments, apartmentColumns,
	[]string{"apartamento", "area_construida", "valor_mt2", "area_terraza", "valor_total"},
	apartmentStatus,
)

// apartmentStatus lets "all" searches match "sold" and "available".
func apartmentStatus(r Row) []string {
	v := r.Value("vendido")
	if v.Bool != nil && *v.Bool {
		return []string{"sold"}
	}
	return []string{"available"}
}
