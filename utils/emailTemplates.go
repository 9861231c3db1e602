package utils

import "fmt"

const (
	DefaultEmailTemplateName = "Plantilla por Defecto"
	DefaultEmailSubject      = "Tu diploma de {{course_name}} - {{organization_name}}"
)

// DefaultEmailHTML is created for an organization the first time its email templates are listed
const DefaultEmailHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" align="center" width="100%" style="max-width: 600px; margin: 0 auto;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); border-radius: 16px 16px 0 0;">
                    <tr>
                        <td style="padding: 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 700;">¡Felicidades!</h1>
                        </td>
                    </tr>
                </table>
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%" style="background-color: #ffffff; border-radius: 0 0 16px 16px;">
                    <tr>
                        <td style="padding: 40px 30px;">
                            <h2 style="color: #1f2937; margin: 0 0 10px 0; font-size: 24px;">Hola {{recipient_name}},</h2>
                            <p style="color: #6b7280; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">Has completado exitosamente el curso:</p>
                            <div style="background: #f3f4f6; border-radius: 12px; padding: 20px; margin-bottom: 20px;">
                                <h3 style="color: #6366f1; margin: 0 0 10px 0; font-size: 20px;">{{course_name}}</h3>
                                <p style="margin: 5px 0; font-size: 14px;"><span style="color: #6b7280;">Instructor:</span> <strong>{{instructor}}</strong></p>
                                <p style="margin: 5px 0; font-size: 14px;"><span style="color: #6b7280;">Duración:</span> <strong>{{duration_hours}} horas</strong></p>
                                <p style="margin: 5px 0; font-size: 14px;"><span style="color: #6b7280;">Fecha de emisión:</span> <strong>{{issue_date}}</strong></p>
                            </div>
                            <div style="background-color: #faf5ff; border-left: 4px solid #6366f1; padding: 15px; margin-bottom: 20px;">
                                <p style="color: #6b7280; font-size: 14px; margin: 0;">
                                    <strong style="color: #6366f1;">ID del Certificado:</strong><br>
                                    <code style="background-color: #e0e7ff; padding: 4px 8px; border-radius: 4px; color: #4f46e5;">{{certificate_id}}</code>
                                </p>
                            </div>
                            <p style="color: #6b7280; font-size: 14px; line-height: 1.6; margin: 0;">
                                Adjunto encontrarás tu diploma en formato PDF. También puedes verificar la autenticidad de tu certificado escaneando el código QR incluido en el documento.
                            </p>
                        </td>
                    </tr>
                </table>
                <p style="color: #9ca3af; font-size: 12px; text-align: center; padding: 20px; margin: 0;">
                    {{organization_name}}<br>
                    Este es un correo automático, por favor no responda a este mensaje.
                </p>
            </td>
        </tr>
    </table>
</body>
</html>`

// FallbackEmailHTML is used when an organization has no default template stored
const FallbackEmailHTML = `<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
    <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
        <h1 style="color: #6366f1; margin-bottom: 10px;">¡Felicidades, {{recipient_name}}!</h1>
        <p style="font-size: 16px; color: #333;">Has completado exitosamente el curso:</p>
        <h2 style="color: #333; margin: 20px 0;">{{course_name}}</h2>
        <div style="background: #f8f9fa; padding: 15px; border-radius: 8px; margin: 20px 0;">
            <p style="margin: 5px 0;"><strong>ID del Certificado:</strong> {{certificate_id}}</p>
            <p style="margin: 5px 0;"><strong>Instructor:</strong> {{instructor}}</p>
            <p style="margin: 5px 0;"><strong>Duración:</strong> {{duration_hours}} horas</p>
            <p style="margin: 5px 0;"><strong>Fecha de Emisión:</strong> {{issue_date}}</p>
        </div>
        <p style="font-size: 14px; color: #666;">Adjunto encontrarás tu diploma en formato PDF.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px; text-align: center;">{{organization_name}}</p>
    </div>
</body>
</html>`

// SampleEmailVariables fill template previews
var SampleEmailVariables = map[string]string{
	"recipient_name":    "Juan Pérez",
	"course_name":       "Curso de Ejemplo",
	"instructor":        "María García",
	"duration_hours":    "40",
	"issue_date":        "15 de enero, 2025",
	"certificate_id":    "CERT-ABC123-4567",
	"organization_name": "Mi Organización",
}

// WrapEmailHTML frames a short body in the branded layout used for system emails
func WrapEmailHTML(organization, title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #4f46e5; padding: 30px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
		.content { padding: 40px 30px; color: #1f2937; line-height: 1.6; }
		.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">
			<h2>%s</h2>
			%s
		</div>
		<div class="footer">%s</div>
	</div>
</body>
</html>`, organization, title, body, organization)
}
