package models

import (
	"strings"
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a buyer record. Every data field is nullable; the intake wizard
// decides which ones are mandatory.
type Client struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Identification
	TipoIdentificacion   *string `gorm:"size:20" json:"tipo_identificacion" validate:"omitempty,oneof=CC CE NIT Pasaporte TI"`
	NumeroIdentificacion *string `gorm:"size:50;uniqueIndex" json:"numero_identificacion" validate:"required"`
	FechaExpedicion      *string `gorm:"size:10" json:"fecha_expedicion" validate:"omitempty,datetime=2006-01-02"`
	CiudadExpedicion     *string `gorm:"size:100" json:"ciudad_expedicion"`
	PrimerNombre         *string `gorm:"size:100" json:"primer_nombre" validate:"required"`
	SegundoNombre        *string `gorm:"size:100" json:"segundo_nombre"`
	PrimerApellido       *string `gorm:"size:100" json:"primer_apellido" validate:"required"`
	SegundoApellido      *string `gorm:"size:100" json:"segundo_apellido"`

	// Personal
	FechaNacimiento        *string `gorm:"size:10" json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	PaisNacimiento         *string `gorm:"size:100" json:"pais_nacimiento"`
	DepartamentoNacimiento *string `gorm:"size:100" json:"departamento_nacimiento"`
	CiudadNacimiento       *string `gorm:"size:100" json:"ciudad_nacimiento"`
	Genero                 *string `gorm:"size:20" json:"genero" validate:"omitempty,oneof=Masculino Femenino Otro"`
	EstadoCivil            *string `gorm:"size:30" json:"estado_civil"`
	Nacionalidad           *string `gorm:"size:100" json:"nacionalidad"`
	SegundaNacionalidad    *string `gorm:"size:100" json:"segunda_nacionalidad"`

	// Contact
	CorreoElectronico      *string `gorm:"size:255;uniqueIndex" json:"correo_electronico" validate:"omitempty,email"`
	Celular                *string `gorm:"size:30" json:"celular"`
	DireccionResidencia    *string `gorm:"size:255" json:"direccion_residencia"`
	PaisResidencia         *string `gorm:"size:100" json:"pais_residencia"`
	DepartamentoResidencia *string `gorm:"size:100" json:"departamento_residencia"`
	CiudadResidencia       *string `gorm:"size:100" json:"ciudad_residencia"`
	CodigoPostal           *string `gorm:"size:20" json:"codigo_postal"`

	// Employment
	Ocupacion              *string `gorm:"size:100" json:"ocupacion"`
	TipoVinculacionLaboral *string `gorm:"size:50" json:"tipo_vinculacion_laboral"`
	Empresa                *string `gorm:"size:255" json:"empresa"`
	Cargo                  *string `gorm:"size:100" json:"cargo"`
	DireccionLaboral       *string `gorm:"size:255" json:"direccion_laboral"`
	DescripcionCIIU        *string `gorm:"column:descripcion_ciiu;size:255" json:"descripcion_ciiu"`
	CodigoCIIU             *string `gorm:"column:codigo_ciiu;size:10" json:"codigo_ciiu"`

	// Financial
	TotalActivos           *float64 `json:"total_activos" validate:"omitempty,gte=0"`
	TotalPasivos           *float64 `json:"total_pasivos" validate:"omitempty,gte=0"`
	TotalIngresosMensuales *float64 `json:"total_ingresos_mensuales" validate:"omitempty,gte=0"`
	TotalEgresosMensuales  *float64 `json:"total_egresos_mensuales" validate:"omitempty,gte=0"`
	TotalOtrosIngresos     *float64 `json:"total_otros_ingresos" validate:"omitempty,gte=0"`

	// Compliance
	PEP                                *bool    `gorm:"column:pep" json:"pep"`
	FamiliarPEP                        *bool    `gorm:"column:familiar_pep" json:"familiar_pep"`
	ObligadoTributarUSA                *bool    `gorm:"column:obligado_tributar_usa" json:"obligado_tributar_usa"`
	ObligadoTributarOtrosPaises        *bool    `json:"obligado_tributar_otros_paises"`
	RealizaOperacionesMonedaExtranjera *bool    `json:"realiza_operaciones_moneda_extranjera"`
	RecursosDependenTercero            *bool    `json:"recursos_dependen_tercero"`
	Recurso                            *string  `gorm:"size:255" json:"recurso"`
	ValorRecurso                       *float64 `json:"valor_recurso" validate:"omitempty,gte=0"`
}

// TableName keeps the backend's table name.
func (Client) TableName() string { return "clientes" }

// BeforeCreate assigns a UUID when the caller did not.
func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Client) RowID() string { return c.ID }

// Value reads a column by its catalog key.
func (c *Client) Value(key string) catalog.Value { return fieldValue(c, key) }

// SetField writes a column by its catalog key.
func (c *Client) SetField(key string, v any) error { return setField(c, key, v) }

// FullName joins the non-empty name parts, given names first.
func (c *Client) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []*string{c.PrimerNombre, c.SegundoNombre, c.PrimerApellido, c.SegundoApellido} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, " ")
}

// NullifyBlanks turns empty or whitespace-only strings into NULL, as stored on submit.
func (c *Client) NullifyBlanks() {
	forEachStringField(c, func(p **string) {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	})
}
