package sections

import (
	"encoding/json"
	"strings"
)

// Icon is the closed set of icons a section item may reference.
type Icon string

const (
	IconDefault     Icon = "circle"
	IconHeart       Icon = "heart"
	IconStethoscope Icon = "stethoscope"
	IconHospital    Icon = "hospital"
	IconUsers       Icon = "users"
	IconGraduation  Icon = "graduation-cap"
	IconCalendar    Icon = "calendar"
	IconPhone       Icon = "phone"
	IconMail        Icon = "mail"
	IconMapPin      Icon = "map-pin"
	IconActivity    Icon = "activity"
	IconShield      Icon = "shield"
	IconAward       Icon = "award"
	IconBaby        Icon = "baby"
	IconPill        Icon = "pill"
	IconAmbulance   Icon = "ambulance"
)

var knownIcons = map[Icon]struct{}{
	IconDefault: {}, IconHeart: {}, IconStethoscope: {}, IconHospital: {},
	IconUsers: {}, IconGraduation: {}, IconCalendar: {}, IconPhone: {},
	IconMail: {}, IconMapPin: {}, IconActivity: {}, IconShield: {},
	IconAward: {}, IconBaby: {}, IconPill: {}, IconAmbulance: {},
}

// ParseIcon maps an editor supplied name onto a known icon. Names are
// matched case-insensitively and "_" is accepted for "-".
func ParseIcon(name string) (Icon, bool) {
	normalized := Icon(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	if _, ok := knownIcons[normalized]; ok {
		return normalized, true
	}
	return IconDefault, false
}

// IconOrDefault is ParseIcon without the ok flag.
func IconOrDefault(name string) Icon {
	icon, _ := ParseIcon(name)
	return icon
}

// Icons lists every known icon for editor pickers.
func Icons() []Icon {
	return []Icon{
		IconDefault, IconHeart, IconStethoscope, IconHospital, IconUsers,
		IconGraduation, IconCalendar, IconPhone, IconMail, IconMapPin,
		IconActivity, IconShield, IconAward, IconBaby, IconPill, IconAmbulance,
	}
}

// UnmarshalJSON decodes unknown names as IconDefault.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*i = IconOrDefault(name)
	return nil
}
