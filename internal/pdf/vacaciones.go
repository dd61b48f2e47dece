package pdf

import (
	"bytes"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/go-pdf/fpdf"
)

const fechaLarga = "02/01/2006"

// SolicitudVacaciones renders the printable vacation request form handed to
// the employee for signature. Undecided requests print a pending placeholder
// in the approver column; re-rendering after a decision prints the outcome.
func SolicitudVacaciones(solicitud *model.SolicitudVacaciones, empleado *model.User, disponibles int, now time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, tr("SOLICITUD DE VACACIONES"), "", 1, "C", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Folio: VAC-%s", solicitud.ID.String()[:8])), "", 1, "C", false, 0, "")
	doc.Ln(6)

	etiqueta := func(nombre, valor string) {
		doc.SetFont("Arial", "B", 11)
		doc.CellFormat(55, 8, tr(nombre), "", 0, "L", false, 0, "")
		doc.SetFont("Arial", "", 11)
		doc.CellFormat(0, 8, tr(valor), "", 1, "L", false, 0, "")
	}

	etiqueta("Empleado:", empleado.NombreCompleto)
	if empleado.RFC != "" {
		etiqueta("RFC:", empleado.RFC)
	}
	etiqueta("Departamento:", empleado.Departamento)
	etiqueta("Puesto:", empleado.Puesto)
	if empleado.FechaIngreso != nil {
		etiqueta("Fecha de ingreso:", empleado.FechaIngreso.Format(fechaLarga))
	}
	etiqueta("Fecha de solicitud:", solicitud.FechaSolicitud.Format(fechaLarga))
	doc.Ln(4)

	etiqueta("Tipo:", solicitud.Tipo)
	etiqueta("Del:", solicitud.FechaInicio.Format(fechaLarga))
	etiqueta("Al:", solicitud.FechaFin.Format(fechaLarga))
	etiqueta("Cantidad solicitada:", solicitud.Cantidad.String())
	etiqueta("Días disponibles:", fmt.Sprintf("%d", disponibles))
	if solicitud.Observaciones != "" {
		doc.Ln(2)
		doc.SetFont("Arial", "B", 11)
		doc.CellFormat(0, 8, tr("Observaciones:"), "", 1, "L", false, 0, "")
		doc.SetFont("Arial", "", 11)
		doc.MultiCell(0, 6, tr(solicitud.Observaciones), "", "L", false)
	}

	decision := "PENDIENTE DE APROBACIÓN"
	if solicitud.Decidida() {
		decision = solicitud.Estado
		if solicitud.FechaAprobacion != nil {
			decision = fmt.Sprintf("%s el %s", solicitud.Estado, solicitud.FechaAprobacion.Format(fechaLarga))
		}
		if solicitud.AprobadaPor != nil {
			etiqueta("Decidido por:", solicitud.AprobadaPor.NombreCompleto)
		}
		if solicitud.MotivoRechazo != "" {
			etiqueta("Motivo de rechazo:", solicitud.MotivoRechazo)
		}
	}

	doc.Ln(20)
	doc.SetFont("Arial", "", 11)
	doc.CellFormat(80, 8, "_______________________________", "", 0, "C", false, 0, "")
	doc.CellFormat(15, 8, "", "", 0, "C", false, 0, "")
	doc.CellFormat(80, 8, "_______________________________", "", 1, "C", false, 0, "")
	doc.CellFormat(80, 6, tr("Firma del empleado"), "", 0, "C", false, 0, "")
	doc.CellFormat(15, 6, "", "", 0, "C", false, 0, "")
	doc.CellFormat(80, 6, tr(decision), "", 1, "C", false, 0, "")

	doc.Ln(10)
	doc.SetFont("Arial", "I", 8)
	doc.CellFormat(0, 5, tr(fmt.Sprintf("Documento generado el %s", now.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering vacation request pdf: %w", err)
	}
	return buf.Bytes(), nil
}
