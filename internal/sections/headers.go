package sections

// CV section names.
const (
	Objective            = "objective"
	WorkAndEmployment    = "work_and_employment"
	EducationAndTraining = "education_and_training"
	Skills               = "skills"
	Misc                 = "misc"
	Accomplishments      = "accomplishments"
)

// Job posting section names.
const (
	AboutCompany     = "about_company"
	Mission          = "mission"
	Position         = "position"
	RequiredSkills   = "required_skills"
	PreferredSkills  = "preferred_skills"
	SoftSkills       = "soft_skills"
	JobDescription   = "job_description"
	Responsibilities = "responsibilities"
	Requirements     = "requirements"
	Benefits         = "benefits"
	ProjectDetails   = "project_details"
	IdealCandidate   = "ideal_candidate"
)

var cvGroups = []Group{
	{Section: Objective, Phrases: []string{
		"career goal", "objective", "career objective", "employment objective", "professional objective",
		"summary", "summary of qualifications", "amaç", "hedef", "kariyer hedefi", "özgeçmiş özeti",
	}},
	{Section: WorkAndEmployment, Phrases: []string{
		"employment history", "employment data", "career summary", "work history", "work experience", "experience",
		"professional experience", "professional background", "professional employment", "additional experience",
		"career related experience", "professional employment history", "related experience", "programming experience",
		"freelance", "freelance experience", "army experience", "military experience", "military background",
		"iş deneyimi", "deneyim", "profesyonel deneyim", "çalışma geçmişi",
	}},
	{Section: EducationAndTraining, Phrases: []string{
		"academic background", "academic experience", "programs", "courses", "related courses", "education",
		"educational background", "educational qualifications", "educational training", "education and training",
		"training", "academic training", "professional training", "course project experience", "related course projects",
		"internship experience", "internships", "apprenticeships", "college activities", "certifications",
		"special training", "eğitim", "staj", "sertifikalar", "kurslar", "akademik geçmiş",
	}},
	{Section: Skills, Phrases: []string{
		"credentials", "qualifications", "areas of experience", "areas of expertise", "areas of knowledge", "skills",
		"other skills", "other abilities", "digital skills", "career related skills", "professional skills",
		"specialized skills", "technical skills", "computer skills", "personal skills", "computer knowledge",
		"technologies", "technical experience", "proficiencies", "languages", "language competencies and skills",
		"programming languages", "competencies", "yetenekler", "beceriler", "diller", "teknik beceriler",
	}},
	{Section: Misc, Phrases: []string{
		"activities and honors", "activities", "affiliations", "professional affiliations", "associations",
		"professional associations", "memberships", "professional memberships", "athletic involvement",
		"community involvement", "refere", "civic activities", "extra-curricular activities", "professional activities",
		"volunteer work", "volunteer experience", "additional information", "interests", "ilgi alanları", "üyelikler",
	}},
	{Section: Accomplishments, Phrases: []string{
		"achievement", "awards and achievements", "licenses", "presentations", "conference presentations", "conventions",
		"dissertations", "exhibits", "papers", "publications", "professional publications", "research experience",
		"research grants", "project", "research projects", "personal projects", "current research interests", "thesis",
		"theses", "başarılar", "ödüller", "projeler", "yayınlar", "araştırma",
	}},
}

var jobGroups = []Group{
	{Section: AboutCompany, Phrases: []string{
		"about us", "hakkımızda", "company info", "şirket hakkında", "about the company", "about",
		"who we are", "biz kimiz", "our story", "hikayemiz", "company overview", "şirket genel bakış",
		"company profile", "şirket profili", "background", "geçmiş", "mission", "misyon",
		"vision", "vizyon", "what we do", "ne yapıyoruz", "who we are as a company", "şirket olarak biz kimiz",
	}},
	{Section: Mission, Phrases: []string{
		"mission", "misyon", "görevimiz", "amaç", "hedefimiz", "bizim görevimiz", "bizim amacımız",
	}},
	{Section: Position, Phrases: []string{
		"position", "pozisyon", "job title", "unvan", "title", "rol", "role", "görev", "mevki", "statü",
	}},
	{Section: RequiredSkills, Phrases: []string{
		"required skills", "zorunlu beceriler", "aranan nitelikler", "gerekli beceriler",
		"must have", "must-have", "must-have qualifications", "must have qualifications",
		"requirements", "qualifications", "aranan özellikler", "gerekli nitelikler",
		"requirements and skills", "olmazsa olmaz",
	}},
	{Section: PreferredSkills, Phrases: []string{
		"preferred skills", "tercih edilen beceriler", "nice to have", "nice-to-have",
		"plus", "artı", "tercihen", "tercih edilen nitelikler", "tercih edilen özellikler",
		"nice-to-have / plus",
	}},
	{Section: SoftSkills, Phrases: []string{
		"soft skills", "kişisel yetkinlikler", "kişisel beceriler", "kişisel özellikler",
		"interpersonal skills", "communication skills", "teamwork", "leadership",
		"problem solving", "adaptability", "analytical thinking",
	}},
	{Section: JobDescription, Phrases: []string{
		"job description", "iş tanımı", "görevler", "sorumluluklar", "responsibilities", "tasks",
		"main duties", "main responsibilities", "what you will do", "what will you do",
	}},
	{Section: Responsibilities, Phrases: []string{
		"responsibilities", "görevler", "sorumluluklar", "main responsibilities", "main duties",
		"what you will do", "key responsibilities", "ana sorumluluklar", "primary responsibilities",
	}},
	{Section: Requirements, Phrases: []string{
		"requirements", "gereksinimler", "aranan nitelikler", "must have", "qualifications",
		"gerekli nitelikler", "requirements and skills",
	}},
	{Section: Benefits, Phrases: []string{
		"benefits", "yan haklar", "imkanlar", "sunduklarımız", "what we offer", "offerings",
	}},
	{Section: ProjectDetails, Phrases: []string{
		"project duration", "contract type", "project type", "duration", "kontrat tipi", "proje süresi",
		"çalışma şekli", "employment type", "iş tipi", "iş süresi", "kontrat süresi", "kontrat",
	}},
	{Section: IdealCandidate, Phrases: []string{
		"ideal aday", "tercih edilen aday", "aradığımız aday", "en uygun aday", "kimler başvurmalı",
		"who should apply", "ideal candidate", "preferred candidate", "the right person", "who you are",
		"what we look for", "candidate profile", "aranan aday profili", "aday profili", "bizim için ideal aday",
	}},
}

// CVRegistry returns the header phrases recognised in résumés.
func CVRegistry() *Registry {
	return mustRegistry(cvGroups...)
}

// JobRegistry returns the header phrases recognised in job postings.
func JobRegistry() *Registry {
	return mustRegistry(jobGroups...)
}

// KeywordSections are the job posting sections scanned for keywords.
func KeywordSections() []string {
	return []string{RequiredSkills, Responsibilities, Requirements, PreferredSkills, SoftSkills, JobDescription}
}
