package style

import "encoding/json"

// flatSettings is the persisted wire shape: one flat record with a
// size/color/bold triple per role, matching what the web client stores.
type flatSettings struct {
	NameSize     int    `json:"nameSize"`
	NameColor    string `json:"nameColor"`
	NameBold     bool   `json:"nameBold"`
	TitleSize    int    `json:"titleSize"`
	TitleColor   string `json:"titleColor"`
	TitleBold    bool   `json:"titleBold"`
	ContactSize  int    `json:"contactSize"`
	ContactColor string `json:"contactColor"`
	ContactBold  bool   `json:"contactBold"`
	HeaderSize   int    `json:"headerSize"`
	HeaderColor  string `json:"headerColor"`
	HeaderBold   bool   `json:"headerBold"`
	BodySize     int    `json:"bodySize"`
	BodyColor    string `json:"bodyColor"`
	BodyBold     bool   `json:"bodyBold"`
}

// MarshalJSON encodes the settings as the flat wire record.
func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatSettings{
		NameSize:     s.Name.SizePx,
		NameColor:    s.Name.ColorHex,
		NameBold:     s.Name.Bold,
		TitleSize:    s.Title.SizePx,
		TitleColor:   s.Title.ColorHex,
		TitleBold:    s.Title.Bold,
		ContactSize:  s.Contact.SizePx,
		ContactColor: s.Contact.ColorHex,
		ContactBold:  s.Contact.Bold,
		HeaderSize:   s.Header.SizePx,
		HeaderColor:  s.Header.ColorHex,
		HeaderBold:   s.Header.Bold,
		BodySize:     s.Body.SizePx,
		BodyColor:    s.Body.ColorHex,
		BodyBold:     s.Body.Bold,
	})
}

// UnmarshalJSON decodes the flat wire record and normalizes it, so a
// hand-edited or stale record can never smuggle out-of-range values in.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var f flatSettings
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	loaded := Settings{
		Name:    Setting{SizePx: f.NameSize, ColorHex: f.NameColor, Bold: f.NameBold},
		Title:   Setting{SizePx: f.TitleSize, ColorHex: f.TitleColor, Bold: f.TitleBold},
		Contact: Setting{SizePx: f.ContactSize, ColorHex: f.ContactColor, Bold: f.ContactBold},
		Header:  Setting{SizePx: f.HeaderSize, ColorHex: f.HeaderColor, Bold: f.HeaderBold},
		Body:    Setting{SizePx: f.BodySize, ColorHex: f.BodyColor, Bold: f.BodyBold},
	}
	*s = loaded.Normalize()
	return nil
}
