package controller

import (
	"encoding/base64"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go"
)

func (ctrl *controller) sendEmail(to, subject, body, attachmentName string, attachment []byte) error {
	// when in production, send real email, else just log to console
	if ctrl.model.Config.Mode == "production" {
		return ctrl.sendRealEmail(to, subject, body, attachmentName, attachment)
	}
	fmt.Println("Sending email to", to, "with subject", subject, "and attachment", attachmentName)
	return nil
}

func (ctrl *controller) sendRealEmail(to, subject, body, attachmentName string, attachment []byte) error {
	mj := mailjet.NewMailjetClient(ctrl.model.Config.MailAPIKey, ctrl.model.Config.MailSecret)

	msg := mailjet.InfoMessagesV31{
		From: &mailjet.RecipientV31{
			Email: ctrl.model.Config.MailFrom,
			Name:  "facturante",
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{
				Email: to,
			},
		},
		Subject:  subject,
		TextPart: body,
	}
	if len(attachment) > 0 {
		msg.Attachments = &mailjet.AttachmentsV31{
			mailjet.AttachmentV31{
				ContentType:   "application/pdf",
				Filename:      attachmentName,
				Base64Content: base64.StdEncoding.EncodeToString(attachment),
			},
		}
	}

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{msg}}
	if _, err := mj.SendMailV31(&messages); err != nil {
		return ErrInvalid(err, "cannot send email")
	}
	return nil
}
