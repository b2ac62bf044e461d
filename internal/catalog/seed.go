package catalog

// seedPrograms is the fixed catalog the portal ships with. Written to the
// store once, on first access; institution submissions append after it.
func seedPrograms() []Program {
	return []Program{
		{
			ID:           "1",
			Title:        "Computer Science",
			University:   "Stanford University",
			Location:     "United States, California",
			Discipline:   "Computer Science & IT",
			Degree:       "Master",
			Duration:     "2 years",
			Tuition:      "$52,000 per year",
			Description:  "Stanford's MS in Computer Science program offers specializations in artificial intelligence, biocomputation, computer and network security, human-computer interaction, information management and analytics, mobile and internet computing, real-world computing, software theory, systems, and theoretical computer science.",
			ImageURL:     "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b",
			Deadline:     "December 1, 2023",
			Language:     "English",
			Requirements: []string{"Bachelor's degree in Computer Science or related field", "GRE scores", "TOEFL/IELTS for international applicants"},
			Scholarships: true,
			Ranking:      1,
		},
		{
			ID:             "2",
			Title:          "Business Administration",
			University:     "Harvard University",
			Location:       "United States, Massachusetts",
			Discipline:     "Business & Management",
			Degree:         "Master",
			Duration:       "2 years",
			Tuition:        "$73,440 per year",
			Description:    "The Harvard MBA is designed to develop leaders who make a difference in the world. Students develop the skills required to lead organizations, build businesses, and solve complex social problems.",
			ImageURL:       "https://images.unsplash.com/photo-1462899006636-339e08d1844e",
			Deadline:       "January 5, 2024",
			Language:       "English",
			Requirements:   []string{"Bachelor's degree", "GMAT/GRE scores", "Work experience (avg. 4.7 years)"},
			ApplicationFee: "$250",
			Scholarships:   true,
			Ranking:        2,
		},
		{
			ID:             "3",
			Title:          "Medicine",
			University:     "Oxford University",
			Location:       "United Kingdom, Oxford",
			Discipline:     "Medicine & Health",
			Degree:         "Bachelor",
			Duration:       "6 years",
			Tuition:        "£38,740 per year",
			Description:    "Oxford's Medicine course is a six-year program that provides well-rounded intellectual training with particular emphasis on basic science research. Students work in laboratories and learn scientific methods and analytical techniques.",
			ImageURL:       "https://images.unsplash.com/photo-1532938911079-1b06ac7ceec7",
			Deadline:       "October 15, 2023",
			Language:       "English",
			Requirements:   []string{"A-levels: A*AA in Chemistry, and either Biology, Physics or Mathematics", "BMAT test required"},
			ApplicationFee: "£75",
			Scholarships:   true,
			Ranking:        3,
		},
		{
			ID:             "4",
			Title:          "Environmental Engineering",
			University:     "ETH Zurich",
			Location:       "Switzerland, Zurich",
			Discipline:     "Engineering & Technology",
			Degree:         "Master",
			Duration:       "1.5 years",
			Tuition:        "CHF 1,460 per year",
			Description:    "ETH Zurich's Environmental Engineering program focuses on understanding, analyzing and managing the environment as a system and its interaction with humans, society, and engineering systems.",
			ImageURL:       "https://images.unsplash.com/photo-1473691955023-da1c49c95c78",
			Deadline:       "December 15, 2023",
			Language:       "English",
			Requirements:   []string{"Bachelor's degree in related field", "English proficiency"},
			ApplicationFee: "CHF 150",
			Scholarships:   true,
			Ranking:        5,
		},
		{
			ID:             "5",
			Title:          "Psychology",
			University:     "University of Amsterdam",
			Location:       "Netherlands, Amsterdam",
			Discipline:     "Social Sciences",
			Degree:         "Bachelor",
			Duration:       "3 years",
			Tuition:        "€8,900 per year",
			Description:    "The Psychology program at UvA covers the broad topics of human emotions, behavior, and mental processes. It explores how people perceive, learn, and interact with the environment and each other.",
			ImageURL:       "https://images.unsplash.com/photo-1531746790731-6c087fecd65a",
			Deadline:       "May 1, 2024",
			Language:       "English",
			Requirements:   []string{"Secondary school diploma", "English proficiency"},
			ApplicationFee: "€100",
			Scholarships:   false,
			Ranking:        6,
		},
		{
			ID:             "6",
			Title:          "Data Science",
			University:     "MIT",
			Location:       "United States, Massachusetts",
			Discipline:     "Computer Science & IT",
			Degree:         "Master",
			Duration:       "1 year",
			Tuition:        "$75,000",
			Description:    "The MIT Master of Data Science program equips students with the tools to apply analytics to solve complex real-world problems. The curriculum integrates statistics, machine learning, data analysis, and algorithmic principles.",
			ImageURL:       "https://images.unsplash.com/photo-1518770660439-4636190af475",
			Deadline:       "January 15, 2024",
			Language:       "English",
			Requirements:   []string{"Bachelor's degree in a quantitative field", "Programming experience", "GRE scores"},
			ApplicationFee: "$75",
			Scholarships:   true,
			Ranking:        1,
		},
		{
			ID:             "7",
			Title:          "Digital Marketing",
			University:     "ESADE Business School",
			Location:       "Spain, Barcelona",
			Discipline:     "Business & Management",
			Degree:         "Master",
			Duration:       "10 months",
			Tuition:        "€29,800",
			Description:    "ESADE's MSc in Digital Marketing provides a comprehensive understanding of current and emerging digital marketing technologies, techniques and strategies. Students develop the skills to lead digital transformation initiatives.",
			ImageURL:       "https://images.unsplash.com/photo-1461749280684-dccba630e2f6",
			Deadline:       "July 30, 2024",
			Language:       "English",
			Requirements:   []string{"Bachelor's degree", "GMAT/GRE (optional)", "Interview"},
			ApplicationFee: "€135",
			Scholarships:   true,
			Ranking:        8,
		},
		{
			ID:             "8",
			Title:          "Architecture",
			University:     "Delft University of Technology",
			Location:       "Netherlands, Delft",
			Discipline:     "Architecture & Design",
			Degree:         "Master",
			Duration:       "2 years",
			Tuition:        "€18,750 per year",
			Description:    "The Architecture Master's program at TU Delft educates architects who have a broad understanding of their field, who are critical thinkers and who can develop innovative architectural concepts.",
			ImageURL:       "https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d",
			Deadline:       "April 1, 2024",
			Language:       "English",
			Requirements:   []string{"Bachelor's degree in Architecture or related field", "Portfolio", "Letter of motivation"},
			ApplicationFee: "€100",
			Scholarships:   true,
			Ranking:        4,
		},
	}
}
