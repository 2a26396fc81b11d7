package sections

func text(name, label string) FieldDefinition {
	return FieldDefinition{Name: name, Label: label, Type: FieldText}
}

func field(name, label string, ft FieldType) FieldDefinition {
	return FieldDefinition{Name: name, Label: label, Type: ft}
}

func institutionSection(key, label string) SectionDefinition {
	return SectionDefinition{
		Key:    key,
		Label:  label,
		Fields: []FieldDefinition{field("institutions", "Institutions", FieldList)},
	}
}

var (
	heroSection = SectionDefinition{Key: KeyHero, Label: "Hero Carousel", Fields: []FieldDefinition{
		field("slides", "Slides", FieldList),
		field("interval", "Slide interval (ms)", FieldNumber),
	}}
	directorSection = SectionDefinition{Key: KeyDirectorMessage, Label: "Director's Message", Fields: []FieldDefinition{
		text("name", "Name"),
		text("title", "Title"),
		field("image", "Photo", FieldImage),
		field("message", "Message", FieldRichText),
	}}
	servicesSection = SectionDefinition{Key: KeyServices, Label: "Services", Fields: []FieldDefinition{
		text("heading", "Heading"),
		field("intro", "Introduction", FieldTextarea),
		field("items", "Services", FieldList),
	}}
	statsSection = SectionDefinition{Key: KeyStats, Label: "Statistics", Fields: []FieldDefinition{
		field("items", "Statistics", FieldList),
	}}
	testimonialsSection = SectionDefinition{Key: KeyTestimonials, Label: "Testimonials", Fields: []FieldDefinition{
		text("heading", "Heading"),
		field("items", "Testimonials", FieldList),
	}}
	gallerySection = SectionDefinition{Key: KeyGallery, Label: "Gallery", Fields: []FieldDefinition{
		text("heading", "Heading"),
		field("images", "Images", FieldList),
	}}
	eventsSection = SectionDefinition{Key: KeyEvents, Label: "Events", Fields: []FieldDefinition{
		text("heading", "Heading"),
		field("items", "Events", FieldList),
	}}
	blogSection = SectionDefinition{Key: KeyBlog, Label: "Blog Posts", Fields: []FieldDefinition{
		text("heading", "Heading"),
		field("posts", "Posts", FieldList),
	}}
)

// DefaultPages is the page editor configuration of the site.
func DefaultPages() []PageDefinition {
	return []PageDefinition{
		{Slug: "home", Title: "Home", Sections: []SectionDefinition{
			heroSection, directorSection, servicesSection, statsSection, testimonialsSection, eventsSection,
		}},
		{Slug: "about", Title: "About", Sections: []SectionDefinition{
			{Key: KeyAbout, Label: "Introduction", Fields: []FieldDefinition{
				text("heading", "Heading"),
				field("body", "Body", FieldRichText),
				field("image", "Image", FieldImage),
				text("founded", "Founded"),
			}},
			{Key: KeyMission, Label: "Mission & Vision", Fields: []FieldDefinition{
				field("mission", "Mission", FieldTextarea),
				field("vision", "Vision", FieldTextarea),
				field("values", "Core values", FieldList),
			}},
			directorSection,
		}},
		{Slug: "services", Title: "Services", Sections: []SectionDefinition{servicesSection, statsSection}},
		{Slug: "institutions", Title: "Institutions", Sections: []SectionDefinition{
			institutionSection("hospitals", "Hospitals"),
			institutionSection("clinics", "Clinics"),
			institutionSection("polyclinics", "Polyclinics"),
			institutionSection("specialized", "Specialized Centres"),
			institutionSection("training", "Training Institutions"),
			institutionSection("conferences", "Conference Facilities"),
		}},
		{Slug: "blog", Title: "Blog", Sections: []SectionDefinition{blogSection}},
		{Slug: "gallery", Title: "Gallery", Sections: []SectionDefinition{gallerySection}},
		{Slug: "events", Title: "Events", Sections: []SectionDefinition{eventsSection}},
		{Slug: "testimonials", Title: "Testimonials", Sections: []SectionDefinition{testimonialsSection}},
		{Slug: "contact", Title: "Contact", Sections: []SectionDefinition{
			{Key: KeyContactInfo, Label: "Contact Details", Fields: []FieldDefinition{
				field("address", "Address", FieldTextarea),
				text("phone", "Phone"),
				text("email", "Email"),
				text("hours", "Opening hours"),
				field("map_url", "Map URL", FieldURL),
			}},
		}},
	}
}

// DefaultRegistry returns the registry for DefaultPages.
func DefaultRegistry() *Registry {
	return MustNewRegistry(DefaultPages()...)
}
