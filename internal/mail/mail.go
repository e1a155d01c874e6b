// Package mail writes the composed document as a MIME message and reads
// messages back into a document.
package mail

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/bethropolis/composer/internal/logger"
)

// ErrNoBody is returned when a message has neither an HTML nor a text part.
var ErrNoBody = errors.New("mail: message has no text body")

// Message is a composed message: headers plus its two renditions.
type Message struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
	Text    string
	HTML    string
}

func addressList(field string, values []string) ([]*mail.Address, error) {
	var out []*mail.Address
	for _, v := range values {
		list, err := mail.ParseAddressList(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s address %q: %w", field, v, err)
		}
		out = append(out, list...)
	}
	return out, nil
}

// Write encodes msg as a multipart/alternative message with a text/plain
// and, unless msg.HTML is empty, a text/html part.
func Write(w io.Writer, msg *Message) error {
	var h mail.Header
	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}
	h.SetDate(date)
	h.SetSubject(msg.Subject)
	if msg.From != "" {
		from, err := addressList("From", []string{msg.From})
		if err != nil {
			return err
		}
		h.SetAddressList("From", from)
	}
	if len(msg.To) > 0 {
		to, err := addressList("To", msg.To)
		if err != nil {
			return err
		}
		h.SetAddressList("To", to)
	}
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generating message id: %w", err)
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating inline writer: %w", err)
	}
	if err := writePart(iw, "text/plain", msg.Text); err != nil {
		return err
	}
	if msg.HTML != "" {
		if err := writePart(iw, "text/html", msg.HTML); err != nil {
			return err
		}
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("closing inline part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}
	logger.DebugTagf("mail", "wrote message %q (%d text, %d html bytes)", msg.Subject, len(msg.Text), len(msg.HTML))
	return nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("creating %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return fmt.Errorf("writing %s part: %w", contentType, err)
	}
	return pw.Close()
}

// Read decodes a message, keeping its headers and its text and HTML parts.
// Attachments are skipped.
func Read(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	msg := &Message{}
	msg.Subject, _ = mr.Header.Subject()
	msg.Date, _ = mr.Header.Date()
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].String()
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, a := range to {
			msg.To = append(msg.To, a.String())
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading message part: %w", err)
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("reading %s part: %w", contentType, err)
		}
		switch {
		case strings.HasPrefix(contentType, "text/html"):
			msg.HTML = string(body)
		case strings.HasPrefix(contentType, "text/plain"), contentType == "":
			msg.Text = string(body)
		}
	}
	if msg.HTML == "" && msg.Text == "" {
		return nil, ErrNoBody
	}
	return msg, nil
}
