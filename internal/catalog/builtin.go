package catalog

import "github.com/anxmeshhh/PrepIQ/internal/model"

var builtinDomains = []model.Domain{
	{
		Key:              "web_development",
		Name:             "Web Development",
		Topics:           []string{"HTML/CSS", "JavaScript", "React/Vue", "Node.js", "Databases", "APIs", "Security", "Performance"},
		DifficultyLevels: []string{"Junior", "Mid-level", "Senior"},
		FocusAreas:       []string{"Frontend", "Backend", "Full-stack", "DevOps"},
	},
	{
		Key:              "ai_ml",
		Name:             "AI/Machine Learning",
		Topics:           []string{"Python", "TensorFlow/PyTorch", "Data Science", "Algorithms", "Statistics", "Deep Learning"},
		DifficultyLevels: []string{"Entry", "Intermediate", "Advanced"},
		FocusAreas:       []string{"Data Science", "ML Engineering", "Research", "Computer Vision"},
	},
	{
		Key:              "electrical",
		Name:             "Core Electrical",
		Topics:           []string{"Circuit Analysis", "Power Systems", "Electronics", "Control Systems", "Signal Processing"},
		DifficultyLevels: []string{"Graduate", "Experienced", "Expert"},
		FocusAreas:       []string{"Power", "Electronics", "Control", "Communications"},
	},
	{
		Key:              "hr",
		Name:             "Human Resources",
		Topics:           []string{"Recruitment", "Employee Relations", "Compliance", "Performance Management", "Training"},
		DifficultyLevels: []string{"Associate", "Manager", "Director"},
		FocusAreas:       []string{"Talent Acquisition", "Employee Relations", "Compensation", "Learning & Development"},
	},
}

var builtinResources = map[string][]model.StudyResource{
	"web_development": {
		{Title: "MDN Web Docs", URL: "https://developer.mozilla.org", Type: "Documentation"},
		{Title: "JavaScript.info", URL: "https://javascript.info", Type: "Tutorial"},
		{Title: "React Documentation", URL: "https://react.dev", Type: "Documentation"},
		{Title: "Node.js Documentation", URL: "https://nodejs.org/docs", Type: "Documentation"},
		{Title: "CSS-Tricks", URL: "https://css-tricks.com", Type: "Resource"},
		{Title: "Frontend Masters", URL: "https://frontendmasters.com", Type: "Course"},
		{Title: "LeetCode", URL: "https://leetcode.com", Type: "Practice"},
	},
	"ai_ml": {
		{Title: "Coursera ML Course", URL: "https://coursera.org/learn/machine-learning", Type: "Course"},
		{Title: "Kaggle Learn", URL: "https://kaggle.com/learn", Type: "Tutorial"},
		{Title: "Papers With Code", URL: "https://paperswithcode.com", Type: "Research"},
		{Title: "Fast.ai", URL: "https://fast.ai", Type: "Course"},
		{Title: "Towards Data Science", URL: "https://towardsdatascience.com", Type: "Articles"},
		{Title: "Google AI Education", URL: "https://ai.google/education", Type: "Resource"},
		{Title: "Scikit-learn Documentation", URL: "https://scikit-learn.org", Type: "Documentation"},
	},
	"electrical": {
		{Title: "All About Circuits", URL: "https://allaboutcircuits.com", Type: "Tutorial"},
		{Title: "Electronics Tutorials", URL: "https://electronics-tutorials.ws", Type: "Tutorial"},
		{Title: "IEEE Xplore", URL: "https://ieeexplore.ieee.org", Type: "Research"},
		{Title: "Circuit Digest", URL: "https://circuitdigest.com", Type: "Resource"},
		{Title: "Khan Academy Electrical Engineering", URL: "https://khanacademy.org", Type: "Course"},
		{Title: "MIT OpenCourseWare", URL: "https://ocw.mit.edu", Type: "Course"},
	},
	"hr": {
		{Title: "SHRM Resources", URL: "https://shrm.org", Type: "Resource"},
		{Title: "HR.com", URL: "https://hr.com", Type: "Resource"},
		{Title: "Harvard Business Review HR", URL: "https://hbr.org/topic/human-resource-management", Type: "Articles"},
		{Title: "Workology", URL: "https://workology.com", Type: "Resource"},
		{Title: "LinkedIn Learning HR Courses", URL: "https://linkedin.com/learning", Type: "Course"},
		{Title: "Coursera HR Specializations", URL: "https://coursera.org", Type: "Course"},
	},
}
