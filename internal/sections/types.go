package sections

// Section keys used by the public pages.
const (
	KeyHero            = "hero"
	KeyDirectorMessage = "director_message"
	KeyServices        = "services"
	KeyTestimonials    = "testimonials_list"
	KeyGallery         = "gallery"
	KeyEvents          = "events"
	KeyBlog            = "blog_posts"
	KeyAbout           = "about_intro"
	KeyMission         = "mission_vision"
	KeyContactInfo     = "contact_info"
	KeyStats           = "stats"
)

type Slide struct {
	Image    string `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"cta_label"`
	CTALink  string `json:"cta_link"`
}

type Hero struct {
	Slides   []Slide `json:"slides"`
	Interval int     `json:"interval"`
}

type DirectorMessage struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Image   string `json:"image"`
	Message string `json:"message"`
}

type ServiceItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        Icon   `json:"icon"`
}

type Services struct {
	Heading string        `json:"heading"`
	Intro   string        `json:"intro"`
	Items   []ServiceItem `json:"items"`
}

type Testimonial struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Quote  string `json:"quote"`
	Image  string `json:"image"`
	Rating int    `json:"rating"`
}

type Testimonials struct {
	Heading string        `json:"heading"`
	Items   []Testimonial `json:"items"`
}

type GalleryImage struct {
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
}

type Gallery struct {
	Heading string         `json:"heading"`
	Images  []GalleryImage `json:"images"`
}

type Event struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type Events struct {
	Heading string  `json:"heading"`
	Items   []Event `json:"items"`
}

type BlogPost struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Image    string `json:"image"`
	BodyHTML string `json:"body_html"`
}

type Blog struct {
	Heading string     `json:"heading"`
	Posts   []BlogPost `json:"posts"`
}

type About struct {
	Heading  string `json:"heading"`
	Body     string `json:"body"`
	Image    string `json:"image"`
	Founded  string `json:"founded"`
	BodyHTML string `json:"body_html"`
}

type Mission struct {
	Mission string   `json:"mission"`
	Vision  string   `json:"vision"`
	Values  []string `json:"values"`
}

type ContactInfo struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Hours   string `json:"hours"`
	MapURL  string `json:"map_url"`
}

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  Icon   `json:"icon"`
}

type Stats struct {
	Items []Stat `json:"items"`
}

func DefaultHero() Hero {
	return Hero{
		Interval: 5000,
		Slides: []Slide{
			{
				Image:    "/images/hero/care.jpg",
				Title:    "Compassionate care for every community",
				Subtitle: "A network of hospitals, clinics and training institutions",
				CTALabel: "Find an institution",
				CTALink:  "/institutions",
			},
		},
	}
}

func DefaultDirectorMessage() DirectorMessage {
	return DirectorMessage{
		Name:    "Director of Health Services",
		Title:   "Director",
		Image:   "/images/director.jpg",
		Message: "Welcome to our health services network.",
	}
}

func DefaultServices() Services {
	return Services{
		Heading: "Our Services",
		Intro:   "Comprehensive healthcare delivered through our institutions.",
		Items: []ServiceItem{
			{Title: "Hospital Care", Description: "Inpatient and outpatient services.", Icon: IconHospital},
			{Title: "Maternal Health", Description: "Antenatal, delivery and postnatal care.", Icon: IconBaby},
			{Title: "Health Training", Description: "Nursing and allied health education.", Icon: IconGraduation},
		},
	}
}

func DefaultTestimonials() Testimonials {
	return Testimonials{Heading: "What People Say", Items: []Testimonial{}}
}

func DefaultGallery() Gallery {
	return Gallery{Heading: "Gallery", Images: []GalleryImage{}}
}

func DefaultEvents() Events {
	return Events{Heading: "Upcoming Events", Items: []Event{}}
}

func DefaultBlog() Blog {
	return Blog{Heading: "News & Updates", Posts: []BlogPost{}}
}

func DefaultAbout() About {
	return About{
		Heading: "About Us",
		Body:    "We coordinate a network of faith-based healthcare institutions.",
	}
}

func DefaultMission() Mission {
	return Mission{
		Mission: "To provide quality, accessible healthcare.",
		Vision:  "Healthy communities served with compassion.",
		Values:  []string{"Compassion", "Integrity", "Excellence"},
	}
}

func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Address: "Head Office",
		Hours:   "Mon - Fri, 8:00 - 17:00",
	}
}

func DefaultStats() Stats {
	return Stats{Items: []Stat{}}
}
