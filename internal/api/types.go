package api

import "time"

// Address is the postal address of a location.
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
	Zip     string `json:"zip,omitempty"`
}

// LocationsByGeoResponse is the get-locations-by-geo result.
type LocationsByGeoResponse struct {
	LocationsByGeo []GeoLocation `json:"locationsByGeo"`
}

// GeoLocation is a building returned by a city search.
type GeoLocation struct {
	UUID                 string  `json:"uuid"`
	Name                 string  `json:"name"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Address              Address `json:"address"`
	TimeZone             string  `json:"timeZone"`
	Distance             float64 `json:"distance"`
	BrandName            string  `json:"brandName,omitempty"`
	HasThirdPartyDisplay bool    `json:"hasThirdPartyDisplay"`
	Image                string  `json:"image,omitempty"`
	IsMigrated           bool    `json:"isMigrated"`
}

// SharedWorkspaceResponse is the get-spaces result.
type SharedWorkspaceResponse struct {
	Limit    int `json:"limit"`
	Offset   int `json:"offset"`
	Response struct {
		Workspaces []Workspace `json:"workspaces"`
	} `json:"getSharedWorkspaces"`
}

// Workspace is a reservable shared workspace on a given day.
type Workspace struct {
	UUID                 string               `json:"uuid"`
	InventoryUUID        string               `json:"inventoryUuid,omitempty"`
	ImageURL             string               `json:"imageURL,omitempty"`
	HeaderImageURL       string               `json:"headerImageUrl,omitempty"`
	Capacity             int                  `json:"capacity"`
	Credits              float64              `json:"credits"`
	Location             Location             `json:"location"`
	OpenTime             string               `json:"openTime"`
	CloseTime            string               `json:"closeTime"`
	CancellationPolicy   string               `json:"cancellationPolicy,omitempty"`
	OperatingHours       []*OperatingHours    `json:"operatingHours,omitempty"`
	ProductPrice         *ProductPrice        `json:"productPrice,omitempty"`
	Seat                 Seat                 `json:"seat"`
	SeatsAvailable       int                  `json:"seatsAvailable"`
	Reservable           *WorkspaceReservable `json:"reservable,omitempty"`
	IsVASTCoworking      bool                 `json:"isVASTCoworking"`
	IsAffiliateCoworking bool                 `json:"isAffiliateCoworking"`
	IsFranchiseCoworking bool                 `json:"isFranchiseCoworking"`
	IsHybridSpace        bool                 `json:"isHybridSpace"`
}

// WorkspaceReservable links a workspace to its booking-system record. Only
// locations migrated to the newer booking system carry it.
type WorkspaceReservable struct {
	KubeId string `json:"kubeId"`
}

// Location describes the building a workspace belongs to.
type Location struct {
	UUID                       string      `json:"uuid"`
	Name                       string      `json:"name"`
	Description                string      `json:"description,omitempty"`
	SupportEmail               string      `json:"supportEmail,omitempty"`
	PhoneNormalized            string      `json:"phoneNormalized,omitempty"`
	Currency                   string      `json:"currency,omitempty"`
	Amenities                  []Amenity   `json:"amenities,omitempty"`
	TransitInfo                TransitInfo `json:"transitInfo"`
	MemberEntranceInstructions string      `json:"memberEntranceInstructions,omitempty"`
	ParkingInstructions        string      `json:"parkingInstructions,omitempty"`
	TimezoneOffset             string      `json:"timezoneOffset"`
	TimeZoneIdentifier         string      `json:"timeZoneIdentifier,omitempty"`
	TimeZoneWinID              string      `json:"timeZoneWinId,omitempty"`
	Latitude                   float64     `json:"latitude"`
	Longitude                  float64     `json:"longitude"`
	Address                    Address     `json:"address"`
	TimeZone                   string      `json:"timeZone"`
	Distance                   float64     `json:"distance"`
	AccountType                int         `json:"accountType"`
	HasThirdPartyDisplay       bool        `json:"hasThirdPartyDisplay"`
	IsMigrated                 bool        `json:"isMigrated"`
}

type Amenity struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Highlight bool   `json:"highlight"`
}

type TransitInfo struct {
	Bike    string `json:"bike,omitempty"`
	Bus     string `json:"bus,omitempty"`
	Ferry   string `json:"ferry,omitempty"`
	Freeway string `json:"freeway,omitempty"`
	Metro   string `json:"metro,omitempty"`
	Parking string `json:"parking,omitempty"`
}

type OperatingHours struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Day       string `json:"day"`
	Open      string `json:"open"`
	Close     string `json:"close"`
	IsClosed  bool   `json:"isClosed"`
}

type ProductPrice struct {
	UUID        string `json:"uuid"`
	ProductUUID string `json:"productUuid"`
	Price       Price  `json:"price"`
	RateUnit    int    `json:"rateUnit"`
}

type Price struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type Seat struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// QuoteParameters are the identifiers a quote or booking request needs. They
// differ between the two booking systems behind the members API.
type QuoteParameters struct {
	LocationType int
	SpaceID      string
}

// BookingQuote is the common-booking/quote result.
type BookingQuote struct {
	UUID          string        `json:"uuid"`
	QuoteStatus   int           `json:"quoteStatus"`
	StatusDetails []string      `json:"statusDetails"`
	GrandTotal    *QuoteAmount  `json:"grandTotal"`
	SubTotal      *QuoteAmount  `json:"subTotal"`
	Taxes         []QuoteAmount `json:"taxes,omitempty"`
	Adjustments   []QuoteAmount `json:"adjustments,omitempty"`
}

// QuoteAmount is a priced amount on a quote.
type QuoteAmount struct {
	Currency    string  `json:"currency"`
	Amount      float64 `json:"amount"`
	CreditRatio float64 `json:"creditRatio,omitempty"`
}

// BookSpaceResponse is the common-booking result.
type BookSpaceResponse struct {
	BookingStatus           string   `json:"BookingStatus"`
	ReservationID           string   `json:"ReservationID"`
	ReservationUUID         string   `json:"reservationUUID,omitempty"`
	BookingProcessingStatus string   `json:"bookingProcessingStatus,omitempty"`
	Errors                  []string `json:"errors,omitempty"`
	IsErrored               bool     `json:"isErrorred"`
}

// Succeeded reports whether the booking was accepted.
func (r *BookSpaceResponse) Succeeded() bool {
	if r == nil || r.IsErrored {
		return false
	}
	if r.BookingStatus != "" {
		return r.BookingStatus == "BookingSuccess"
	}
	return r.ReservationUUID != "" || r.ReservationID != ""
}

// Reservation returns whichever reservation identifier the response carried.
func (r *BookSpaceResponse) Reservation() string {
	if r.ReservationID != "" {
		return r.ReservationID
	}
	return r.ReservationUUID
}

type upcomingBookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
}

// Booking is an upcoming or past reservation.
type Booking struct {
	UUID                 string           `json:"uuid"`
	StartsAt             time.Time        `json:"startsAt"`
	EndsAt               time.Time        `json:"endsAt"`
	TimeZone             string           `json:"timezone"`
	CreditOrder          *CreditOrder     `json:"creditOrder,omitempty"`
	Reservable           *SharedWorkspace `json:"reservable,omitempty"`
	IsAttendee           bool             `json:"isAttendee"`
	ModificationDeadline *time.Time       `json:"modificationDeadline,omitempty"`
	Order                *Order           `json:"order,omitempty"`
	IsMultidayBooking    bool             `json:"isMultidayBooking"`
	IsFromKube           bool             `json:"isFromKube"`
}

// LocationName returns the booked building's name, or "" when unknown.
func (b *Booking) LocationName() string {
	if b.Reservable == nil || b.Reservable.Location == nil {
		return ""
	}
	return b.Reservable.Location.Name
}

// LocationAddress returns the booked building's first address line.
func (b *Booking) LocationAddress() string {
	if b.Reservable == nil || b.Reservable.Location == nil {
		return ""
	}
	return b.Reservable.Location.Address.Line1
}

// LocationTimeZone returns the IANA zone of the booked building, falling back to the booking's own zone.
func (b *Booking) LocationTimeZone() string {
	if b.Reservable != nil && b.Reservable.Location != nil && b.Reservable.Location.TimeZone != "" {
		return b.Reservable.Location.TimeZone
	}
	return b.TimeZone
}

// Credits returns the credit price of the booking.
func (b *Booking) Credits() string {
	if b.CreditOrder == nil {
		return ""
	}
	return b.CreditOrder.Price
}

type CreditOrder struct {
	Price string `json:"price"`
}

type SharedWorkspace struct {
	UUID     string                   `json:"uuid"`
	Capacity int                      `json:"capacity"`
	TypeName string                   `json:"__typename,omitempty"`
	Location *SharedWorkspaceLocation `json:"location"`
	ImageURL string                   `json:"imageUrl,omitempty"`
}

type SharedWorkspaceLocation struct {
	UUID      string  `json:"uuid"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   Address `json:"address"`
	TimeZone  string  `json:"timeZone"`
}

type Order struct {
	PaymentProfileUUID string `json:"paymentProfileUuid,omitempty"`
	SubTotal           Price  `json:"subTotal"`
	GrandTotal         Price  `json:"grandTotal"`
}

// CityDetails is one entry of the get-city-details result.
type CityDetails struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  string  `json:"timeZone,omitempty"`
}

// LocationFeaturesResponse is the get-location-features result.
type LocationFeaturesResponse struct {
	Locations []LocationFeatures `json:"locations"`
}

// LocationFeatures is the detailed description of a building.
type LocationFeatures struct {
	UUID                       string          `json:"uuid"`
	Name                       string          `json:"name"`
	Description                string          `json:"description,omitempty"`
	Address                    Address         `json:"address"`
	SupportEmail               string          `json:"supportEmail,omitempty"`
	Phone                      string          `json:"phone,omitempty"`
	TimeZone                   string          `json:"timeZone,omitempty"`
	Amenities                  []Amenity       `json:"amenities,omitempty"`
	Details                    LocationDetails `json:"details"`
	MemberEntranceInstructions string          `json:"memberEntranceInstructions,omitempty"`
	TourInstructions           string          `json:"tourInstructions,omitempty"`
	ParkingInstructions        string          `json:"parkingInstructions,omitempty"`
	TransitInfo                TransitInfo     `json:"transitInfo"`
}

type LocationDetails struct {
	HasExtendedHours bool                   `json:"hasExtendedHours"`
	OperatingHours   []LocationOpeningHours `json:"operatingHours,omitempty"`
}

type LocationOpeningHours struct {
	DayOfWeek string `json:"dayOfWeek"`
	TimeOpen  string `json:"timeOpen"`
	TimeClose string `json:"timeClose"`
}

// UserProfileResponse is the get-user-profile result.
type UserProfileResponse struct {
	UUID               string           `json:"uuid"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone,omitempty"`
	LanguagePreference string           `json:"languagePreference,omitempty"`
	IsWework           bool             `json:"isWework"`
	IsAdmin            bool             `json:"isAdmin"`
	Active             bool             `json:"active"`
	HomeLocation       *GeoLocation     `json:"homeLocation,omitempty"`
	Companies          []ProfileCompany `json:"companies,omitempty"`
}

type ProfileCompany struct {
	UUID                        string               `json:"uuid"`
	Name                        string               `json:"name"`
	PreferredMembershipNullable *PreferredMembership `json:"preferredMembershipNullable,omitempty"`
}

type PreferredMembership struct {
	UUID           string `json:"uuid,omitempty"`
	MembershipType string `json:"membershipType"`
}

// AppBootstrapResponse is the subset of the app-bootstrap result the CLI shows.
type AppBootstrapResponse struct {
	MenuSecurityData struct {
		IsPasswordChangeEnforcing bool   `json:"isPasswordChangeEnforcing"`
		AdminRole                 string `json:"adminRole"`
	} `json:"menuSecurityData"`
	WeworkUserProfileData struct {
		ProfileData struct {
			WeWorkUserData struct {
				WeWorkUserUUID              string `json:"weWorkUserUUID"`
				WeWorkUserEmail             string `json:"weWorkUserEmail"`
				WeWorkUserName              string `json:"weWorkUserName"`
				WeWorkMembershipName        string `json:"weWorkMembershipName"`
				WeWorkMembershipType        string `json:"weWorkMembershipType"`
				WeWorkCompanyUUID           string `json:"weWorkCompanyUUID"`
				WeWorkUserHomeLocationName  string `json:"weWorkUserHomeLocationName"`
				WeWorkUserHomeLocationCity  string `json:"weWorkUserHomeLocationCity"`
				WeWorkUserPreferredCurrency string `json:"weWorkUserPreferredCurrency"`
				IsKubeMigratedAccount       bool   `json:"isKubeMigratedAccount"`
			} `json:"weWorkUserData"`
			WeWorkCompanyList []struct {
				CompanyUUID             string `json:"companyUUID"`
				CompanyName             string `json:"companyName"`
				PreferredMembershipName string `json:"preferredMembershipName"`
				IsMigratedToKUBE        bool   `json:"isMigratedToKUBE"`
			} `json:"weWorkCompanyList"`
			WeWorkMembershipsList []struct {
				UUID           string `json:"uuid"`
				MembershipType string `json:"membershipType"`
				ProductName    string `json:"productName"`
				StartedOn      string `json:"startedOn"`
			} `json:"weWorkMembershipsList"`
		} `json:"profileData"`
	} `json:"weworkUserProfileData"`
	WorkplaceExperienceStatus bool `json:"workplaceExperienceStatus"`
	VastExperienceStatus      bool `json:"vastExperienceStatus"`
}
