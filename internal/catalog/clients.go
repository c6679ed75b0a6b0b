package catalog

// Section groups client fields in the intake form and the dossier.
type Section int

const (
	SectionIdentification Section = iota
	SectionPersonal
	SectionContact
	SectionEmployment
	SectionFinancial
	SectionCompliance
)

// Sections lists the data sections in form order.
var Sections = []Section{
	SectionIdentification,
	SectionPersonal,
	SectionContact,
	SectionEmployment,
	SectionFinancial,
	SectionCompliance,
}

var sectionTitles = [...]string{
	"Identificación",
	"Información Personal",
	"Información de Contacto",
	"Información Laboral",
	"Información Financiera",
	"Información de Cumplimiento",
}

func (s Section) Title() string {
	if s < 0 || int(s) >= len(sectionTitles) {
		return ""
	}
	return sectionTitles[s]
}

// Grid order puts the document number first so it serves as identity column.
var clientColumns = []Column{
	{Key: "numero_identificacion", Label: "Número Identificación", Caption: "Número de Identificación", Kind: KindText},
	{Key: "tipo_identificacion", Label: "Tipo Identificación", Caption: "Tipo de Identificación", Kind: KindText},
	{Key: "fecha_expedicion", Label: "Fecha Expedición", Caption: "Fecha de Expedición", Kind: KindDate},
	{Key: "ciudad_expedicion", Label: "Ciudad Expedición", Caption: "Ciudad de Expedición", Kind: KindText},
	{Key: "primer_nombre", Label: "Primer Nombre", Kind: KindText},
	{Key: "segundo_nombre", Label: "Segundo Nombre", Kind: KindText},
	{Key: "primer_apellido", Label: "Primer Apellido", Kind: KindText},
	{Key: "segundo_apellido", Label: "Segundo Apellido", Kind: KindText},
	{Key: "fecha_nacimiento", Label: "Fecha Nacimiento", Caption: "Fecha de Nacimiento", Kind: KindDate},
	{Key: "pais_nacimiento", Label: "País Nacimiento", Caption: "País de Nacimiento", Kind: KindText},
	{Key: "departamento_nacimiento", Label: "Depto. Nacimiento", Caption: "Departamento de Nacimiento", Kind: KindText},
	{Key: "ciudad_nacimiento", Label: "Ciudad Nacimiento", Caption: "Ciudad de Nacimiento", Kind: KindText},
	{Key: "genero", Label: "Género", Kind: KindText},
	{Key: "estado_civil", Label: "Estado Civil", Kind: KindText},
	{Key: "nacionalidad", Label: "Nacionalidad", Kind: KindText},
	{Key: "segunda_nacionalidad", Label: "Segunda Nacionalidad", Kind: KindText},
	{Key: "correo_electronico", Label: "Correo Electrónico", Kind: KindText},
	{Key: "celular", Label: "Celular", Kind: KindText},
	{Key: "direccion_residencia", Label: "Dirección Residencia", Caption: "Dirección de Residencia", Kind: KindText},
	{Key: "pais_residencia", Label: "País Residencia", Caption: "País de Residencia", Kind: KindText},
	{Key: "departamento_residencia", Label: "Depto. Residencia", Caption: "Departamento de Residencia", Kind: KindText},
	{Key: "ciudad_residencia", Label: "Ciudad Residencia", Caption: "Ciudad de Residencia", Kind: KindText},
	{Key: "codigo_postal", Label: "Código Postal", Kind: KindText},
	{Key: "ocupacion", Label: "Ocupación", Kind: KindText},
	{Key: "tipo_vinculacion_laboral", Label: "Tipo Vinculación", Caption: "Tipo de Vinculación Laboral", Kind: KindText},
	{Key: "empresa", Label: "Empresa", Kind: KindText},
	{Key: "cargo", Label: "Cargo", Kind: KindText},
	{Key: "direccion_laboral", Label: "Dirección Laboral", Kind: KindText},
	{Key: "descripcion_ciiu", Label: "Descripción CIIU", Kind: KindText},
	{Key: "codigo_ciiu", Label: "Código CIIU", Kind: KindText},
	{Key: "total_activos", Label: "Total Activos", Kind: KindCurrency},
	{Key: "total_pasivos", Label: "Total Pasivos", Kind: KindCurrency},
	{Key: "total_ingresos_mensuales", Label: "Ingresos Mensuales", Caption: "Total Ingresos Mensuales", Kind: KindCurrency},
	{Key: "total_egresos_mensuales", Label: "Egresos Mensuales", Caption: "Total Egresos Mensuales", Kind: KindCurrency},
	{Key: "total_otros_ingresos", Label: "Otros Ingresos", Caption: "Total Otros Ingresos", Kind: KindCurrency},
	{Key: "pep", Label: "PEP", Caption: "Persona Expuesta Políticamente (PEP)", Kind: KindBool, Badge: true},
	{Key: "familiar_pep", Label: "Familiar PEP", Caption: "Familiar de PEP", Kind: KindBool, Badge: true},
	{Key: "obligado_tributar_usa", Label: "Tributa USA", Caption: "Obligado a Tributar en USA", Kind: KindBool, Badge: true},
	{Key: "obligado_tributar_otros_paises", Label: "Tributa Otros Países", Caption: "Obligado a Tributar en Otros Países", Kind: KindBool, Badge: true},
	{Key: "realiza_operaciones_moneda_extranjera", Label: "Opera Moneda Extranjera", Caption: "Realiza Operaciones en Moneda Extranjera", Kind: KindBool, Badge: true},
	{Key: "recursos_dependen_tercero", Label: "Recursos de Tercero", Caption: "Recursos Dependen de Tercero", Kind: KindBool, Badge: true},
	{Key: "recurso", Label: "Recurso", Caption: "Especifique el Recurso", Kind: KindText},
	{Key: "valor_recurso", Label: "Valor Recurso", Caption: "Valor del Recurso", Kind: KindCurrency},
	{Key: "created_at", Label: "Creado", Kind: KindDate, ReadOnly: true},
	{Key: "updated_at", Label: "Actualizado", Kind: KindDate, ReadOnly: true},
}

// sectionFields is the form and dossier order of each section.
var sectionFields = map[Section][]string{
	SectionIdentification: {"tipo_identificacion", "numero_identificacion", "fecha_expedicion", "ciudad_expedicion",
		"primer_nombre", "segundo_nombre", "primer_apellido", "segundo_apellido"},
	SectionPersonal: {"fecha_nacimiento", "pais_nacimiento", "departamento_nacimiento", "ciudad_nacimiento",
		"genero", "estado_civil", "nacionalidad", "segunda_nacionalidad"},
	SectionContact: {"correo_electronico", "celular", "direccion_residencia", "pais_residencia",
		"departamento_residencia", "ciudad_residencia", "codigo_postal"},
	SectionEmployment: {"ocupacion", "tipo_vinculacion_laboral", "empresa", "cargo", "direccion_laboral",
		"descripcion_ciiu", "codigo_ciiu"},
	SectionFinancial: {"total_activos", "total_pasivos", "total_ingresos_mensuales", "total_egresos_mensuales",
		"total_otros_ingresos"},
	SectionCompliance: {"pep", "familiar_pep", "obligado_tributar_usa", "obligado_tributar_otros_paises",
		"realiza_operaciones_moneda_extranjera", "recursos_dependen_tercero", "recurso", "valor_recurso"},
}

var clientSpec = newSpec(Clients, clientColumns,
	[]string{"numero_identificacion", "primer_nombre", "segundo_nombre", "primer_apellido", "segundo_apellido",
		"celular", "correo_electronico", "direccion_residencia", "empresa", "ocupacion"},
	nil,
)

// SectionColumns returns the client columns of sec in form order.
func SectionColumns(sec Section) []Column {
	keys := sectionFields[sec]
	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		if c, ok := clientSpec.Column(k); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// SectionKeys returns the client field keys of sec in form order.
func SectionKeys(sec Section) []string {
	return append([]string(nil), sectionFields[sec]...)
}

// Options are the fixed choices offered by the intake form.
var Options = map[string][]string{
	"tipo_identificacion":      {"CC", "CE", "NIT", "Pasaporte", "TI"},
	"genero":                   {"Masculino", "Femenino", "Otro"},
	"estado_civil":             {"Soltero", "Casado", "Unión Libre", "Divorciado", "Viudo"},
	"tipo_vinculacion_laboral": {"Empleado", "Independiente", "Pensionado", "Rentista"},
}
